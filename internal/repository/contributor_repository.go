package repository

import (
	"context"
	"database/sql"
	"errors"

	"tracker-service/internal/entity"
)

type ContributorRepository struct {
	db *sql.DB
}

func NewContributorRepository(db *sql.DB) *ContributorRepository {
	return &ContributorRepository{db}
}

// CreateContributor adds a user to a project roster. The UNIQUE(user_id,
// project_id) constraint decides the winner when two requests race.
func (r *ContributorRepository) CreateContributor(ctx context.Context, contributor *entity.Contributor) (*entity.Contributor, error) {
	query := `INSERT INTO contributors (user_id, project_id, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, contributor.UserID, contributor.ProjectID, contributor.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, entity.ErrAlreadyContributor
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	contributor.ID = int(id)
	return contributor, nil
}

func (r *ContributorRepository) GetContributor(ctx context.Context, userID, projectID int) (*entity.Contributor, error) {
	contributor := &entity.Contributor{}
	query := `SELECT c.id, c.user_id, u.username, c.project_id, c.role
		FROM contributors c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = ? AND c.project_id = ?`
	err := r.db.QueryRowContext(ctx, query, userID, projectID).Scan(
		&contributor.ID, &contributor.UserID, &contributor.Username,
		&contributor.ProjectID, &contributor.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrContributorNotFound
		}
		return nil, err
	}

	return contributor, nil
}

func (r *ContributorRepository) GetContributorsByProject(ctx context.Context, projectID int) ([]entity.Contributor, error) {
	query := `SELECT c.id, c.user_id, u.username, c.project_id, c.role
		FROM contributors c
		JOIN users u ON u.id = c.user_id
		WHERE c.project_id = ?
		ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributors := []entity.Contributor{}
	for rows.Next() {
		contributor := entity.Contributor{}
		err := rows.Scan(&contributor.ID, &contributor.UserID, &contributor.Username,
			&contributor.ProjectID, &contributor.Role)
		if err != nil {
			return nil, err
		}
		contributors = append(contributors, contributor)
	}

	return contributors, rows.Err()
}

func (r *ContributorRepository) DeleteContributor(ctx context.Context, userID, projectID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contributors WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrContributorNotFound
	}

	return nil
}

// IsContributor reports roster membership. Permission checks call this fresh
// on every request; membership is never cached.
func (r *ContributorRepository) IsContributor(ctx context.Context, userID, projectID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM contributors WHERE user_id = ? AND project_id = ?)`
	err := r.db.QueryRowContext(ctx, query, userID, projectID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
