package repository

import (
	"context"
	"database/sql"
	"errors"

	"tracker-service/internal/entity"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db}
}

// CreateProject inserts the project and its AUTHOR contributor row in one
// transaction. A project never exists without its author on the roster.
func (r *ProjectRepository) CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO projects (title, description, type, author_id) VALUES (?, ?, ?, ?)`,
		project.Title, project.Description, project.Type, project.AuthorID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	project.ID = int(id)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contributors (user_id, project_id, role) VALUES (?, ?, ?)`,
		project.AuthorID, project.ID, entity.RoleAuthor)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return project, nil
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id int) (*entity.Project, error) {
	project := &entity.Project{}
	query := `SELECT id, title, description, type, author_id, created_time FROM projects WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Title, &project.Description, &project.Type,
		&project.AuthorID, &project.CreatedTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProjectNotFound
		}
		return nil, err
	}

	return project, nil
}

// GetProjectsByContributor returns the projects the user appears on the roster
// of, in either role.
func (r *ProjectRepository) GetProjectsByContributor(ctx context.Context, userID int) ([]entity.Project, error) {
	query := `SELECT p.id, p.title, p.description, p.type, p.author_id, p.created_time
		FROM projects p
		JOIN contributors c ON c.project_id = p.id
		WHERE c.user_id = ?
		ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []entity.Project{}
	for rows.Next() {
		project := entity.Project{}
		err := rows.Scan(&project.ID, &project.Title, &project.Description, &project.Type,
			&project.AuthorID, &project.CreatedTime)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	query := `UPDATE projects SET title = ?, description = ?, type = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, project.Title, project.Description, project.Type, project.ID)
	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject removes the project. Contributors, issues and their comments
// go with it through FK cascades.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrProjectNotFound
	}

	return nil
}
