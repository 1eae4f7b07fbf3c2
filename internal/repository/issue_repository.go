package repository

import (
	"context"
	"database/sql"
	"errors"

	"tracker-service/internal/entity"
)

type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db}
}

func (r *IssueRepository) CreateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error) {
	query := `INSERT INTO issues (title, description, priority, tag, status, project_id, author_id, assignee_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		issue.Title, issue.Description, issue.Priority, issue.Tag, issue.Status,
		issue.ProjectID, issue.AuthorID, issue.AssigneeID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	issue.ID = int(id)
	return issue, nil
}

// GetIssueByID looks the issue up inside its project scope so an issue id from
// another project reads as not found.
func (r *IssueRepository) GetIssueByID(ctx context.Context, projectID, id int) (*entity.Issue, error) {
	issue := &entity.Issue{}
	query := `SELECT i.id, i.title, i.description, i.priority, i.tag, i.status,
			i.project_id, i.author_id, u.username, i.assignee_id, i.created_time
		FROM issues i
		JOIN users u ON u.id = i.author_id
		WHERE i.id = ? AND i.project_id = ?`
	err := r.db.QueryRowContext(ctx, query, id, projectID).Scan(
		&issue.ID, &issue.Title, &issue.Description, &issue.Priority, &issue.Tag, &issue.Status,
		&issue.ProjectID, &issue.AuthorID, &issue.AuthorUsername, &issue.AssigneeID, &issue.CreatedTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrIssueNotFound
		}
		return nil, err
	}

	return issue, nil
}

func (r *IssueRepository) GetIssuesByProject(ctx context.Context, projectID int) ([]entity.Issue, error) {
	query := `SELECT i.id, i.title, i.description, i.priority, i.tag, i.status,
			i.project_id, i.author_id, u.username, i.assignee_id, i.created_time
		FROM issues i
		JOIN users u ON u.id = i.author_id
		WHERE i.project_id = ?
		ORDER BY i.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []entity.Issue{}
	for rows.Next() {
		issue := entity.Issue{}
		err := rows.Scan(&issue.ID, &issue.Title, &issue.Description, &issue.Priority, &issue.Tag,
			&issue.Status, &issue.ProjectID, &issue.AuthorID, &issue.AuthorUsername,
			&issue.AssigneeID, &issue.CreatedTime)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}

func (r *IssueRepository) UpdateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error) {
	query := `UPDATE issues SET title = ?, description = ?, priority = ?, tag = ?, status = ?, assignee_id = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		issue.Title, issue.Description, issue.Priority, issue.Tag, issue.Status, issue.AssigneeID, issue.ID)
	if err != nil {
		return nil, err
	}

	return issue, nil
}

// DeleteIssue removes the issue and, through the FK cascade, its comments.
func (r *IssueRepository) DeleteIssue(ctx context.Context, projectID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ? AND project_id = ?`, id, projectID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrIssueNotFound
	}

	return nil
}
