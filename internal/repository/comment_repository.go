package repository

import (
	"context"
	"database/sql"
	"errors"

	"tracker-service/internal/entity"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error) {
	query := `INSERT INTO comments (uuid, text, issue_id, author_id) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, comment.UUID, comment.Text, comment.IssueID, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (r *CommentRepository) GetCommentByUUID(ctx context.Context, issueID int, uuid string) (*entity.Comment, error) {
	comment := &entity.Comment{}
	query := `SELECT c.uuid, c.text, c.issue_id, c.author_id, u.username, c.created_time
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.uuid = ? AND c.issue_id = ?`
	err := r.db.QueryRowContext(ctx, query, uuid, issueID).Scan(
		&comment.UUID, &comment.Text, &comment.IssueID, &comment.AuthorID,
		&comment.AuthorUsername, &comment.CreatedTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCommentNotFound
		}
		return nil, err
	}

	return comment, nil
}

func (r *CommentRepository) GetCommentsByIssue(ctx context.Context, issueID int) ([]entity.Comment, error) {
	query := `SELECT c.uuid, c.text, c.issue_id, c.author_id, u.username, c.created_time
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.issue_id = ?
		ORDER BY c.created_time`
	rows, err := r.db.QueryContext(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []entity.Comment{}
	for rows.Next() {
		comment := entity.Comment{}
		err := rows.Scan(&comment.UUID, &comment.Text, &comment.IssueID, &comment.AuthorID,
			&comment.AuthorUsername, &comment.CreatedTime)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) UpdateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE comments SET text = ? WHERE uuid = ?`, comment.Text, comment.UUID)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, issueID int, uuid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE uuid = ? AND issue_id = ?`, uuid, issueID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrCommentNotFound
	}

	return nil
}
