package service

import (
	"context"

	"github.com/google/uuid"

	"tracker-service/internal/entity"
)

type CommentStore interface {
	CreateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error)
	GetCommentByUUID(ctx context.Context, issueID int, uuid string) (*entity.Comment, error)
	GetCommentsByIssue(ctx context.Context, issueID int) ([]entity.Comment, error)
	UpdateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error)
	DeleteComment(ctx context.Context, issueID int, uuid string) error
}

type CommentService struct {
	comments CommentStore
}

func NewCommentService(comments CommentStore) *CommentService {
	return &CommentService{comments: comments}
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

// CreateComment attaches a comment to the issue, keyed by a fresh random UUID.
func (s *CommentService) CreateComment(ctx context.Context, issueID, authorID int, req *CreateCommentRequest) (*entity.Comment, error) {
	if req.Text == "" {
		return nil, entity.NewValidationError("text", "This field is required.")
	}

	comment := &entity.Comment{
		UUID:     uuid.NewString(),
		Text:     req.Text,
		IssueID:  issueID,
		AuthorID: authorID,
	}

	created, err := s.comments.CreateComment(ctx, comment)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating comment on issue %d", issueID)
		return nil, err
	}

	return created, nil
}

func (s *CommentService) GetComment(ctx context.Context, issueID int, commentUUID string) (*entity.Comment, error) {
	comment, err := s.comments.GetCommentByUUID(ctx, issueID, commentUUID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting comment %s on issue %d", commentUUID, issueID)
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, issueID int) ([]entity.Comment, error) {
	comments, err := s.comments.GetCommentsByIssue(ctx, issueID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing comments for issue %d", issueID)
		return nil, err
	}

	return comments, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, issueID int, commentUUID string, req *UpdateCommentRequest) (*entity.Comment, error) {
	comment, err := s.comments.GetCommentByUUID(ctx, issueID, commentUUID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		if *req.Text == "" {
			return nil, entity.NewValidationError("text", "This field may not be blank.")
		}
		comment.Text = *req.Text
	}

	updated, err := s.comments.UpdateComment(ctx, comment)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating comment %s", commentUUID)
		return nil, err
	}

	return updated, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, issueID int, commentUUID string) error {
	if err := s.comments.DeleteComment(ctx, issueID, commentUUID); err != nil {
		logger.Error().Err(err).Msgf("Error deleting comment %s", commentUUID)
		return err
	}

	return nil
}
