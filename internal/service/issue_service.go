package service

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tracker-service/internal/entity"
)

type IssueStore interface {
	CreateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error)
	GetIssueByID(ctx context.Context, projectID, id int) (*entity.Issue, error)
	GetIssuesByProject(ctx context.Context, projectID int) ([]entity.Issue, error)
	UpdateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error)
	DeleteIssue(ctx context.Context, projectID, id int) error
}

type IssueService struct {
	issues      IssueStore
	kafkaWriter *kafka.Writer
}

func NewIssueService(issues IssueStore, kafkaWriter *kafka.Writer) *IssueService {
	return &IssueService{issues: issues, kafkaWriter: kafkaWriter}
}

type CreateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Tag         string `json:"tag"`
	Status      string `json:"status"`
	AssigneeID  *int   `json:"assignee"`
}

type UpdateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Tag         *string `json:"tag"`
	Status      *string `json:"status"`
	AssigneeID  *int    `json:"assignee"`
}

// CreateIssue files an issue against the project with the caller as author.
// The assignee is not required to be on the roster; the field is a plain user
// reference.
func (s *IssueService) CreateIssue(ctx context.Context, projectID, authorID int, req *CreateIssueRequest) (*entity.Issue, error) {
	if req.Title == "" {
		return nil, entity.NewValidationError("title", "This field is required.")
	}
	if !entity.ValidPriority(req.Priority) {
		return nil, entity.NewValidationError("priority", "Priority must be one of LOW, MEDIUM, HIGH.")
	}
	if !entity.ValidTag(req.Tag) {
		return nil, entity.NewValidationError("tag", "Tag must be one of BUG, FEATURE, TASK.")
	}
	status := req.Status
	if status == "" {
		status = entity.StatusTodo
	}
	if !entity.ValidStatus(status) {
		return nil, entity.NewValidationError("status", "Status must be one of TODO, IN_PROGRESS, FINISHED.")
	}

	issue := &entity.Issue{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Tag:         req.Tag,
		Status:      status,
		ProjectID:   projectID,
		AuthorID:    authorID,
		AssigneeID:  req.AssigneeID,
	}

	created, err := s.issues.CreateIssue(ctx, issue)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating issue on project %d", projectID)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, "issue", "created", strconv.Itoa(created.ID), created)

	return created, nil
}

func (s *IssueService) GetIssue(ctx context.Context, projectID, id int) (*entity.Issue, error) {
	issue, err := s.issues.GetIssueByID(ctx, projectID, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting issue %d on project %d", id, projectID)
		return nil, err
	}

	return issue, nil
}

func (s *IssueService) ListIssues(ctx context.Context, projectID int) ([]entity.Issue, error) {
	issues, err := s.issues.GetIssuesByProject(ctx, projectID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing issues for project %d", projectID)
		return nil, err
	}

	return issues, nil
}

func (s *IssueService) UpdateIssue(ctx context.Context, projectID, id int, req *UpdateIssueRequest) (*entity.Issue, error) {
	issue, err := s.issues.GetIssueByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, entity.NewValidationError("title", "This field may not be blank.")
		}
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Priority != nil {
		if !entity.ValidPriority(*req.Priority) {
			return nil, entity.NewValidationError("priority", "Priority must be one of LOW, MEDIUM, HIGH.")
		}
		issue.Priority = *req.Priority
	}
	if req.Tag != nil {
		if !entity.ValidTag(*req.Tag) {
			return nil, entity.NewValidationError("tag", "Tag must be one of BUG, FEATURE, TASK.")
		}
		issue.Tag = *req.Tag
	}
	if req.Status != nil {
		if !entity.ValidStatus(*req.Status) {
			return nil, entity.NewValidationError("status", "Status must be one of TODO, IN_PROGRESS, FINISHED.")
		}
		issue.Status = *req.Status
	}
	if req.AssigneeID != nil {
		issue.AssigneeID = req.AssigneeID
	}

	updated, err := s.issues.UpdateIssue(ctx, issue)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating issue %d", id)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, "issue", "updated", strconv.Itoa(updated.ID), updated)

	return updated, nil
}

func (s *IssueService) DeleteIssue(ctx context.Context, projectID, id int) error {
	issue, err := s.issues.GetIssueByID(ctx, projectID, id)
	if err != nil {
		return err
	}

	if err := s.issues.DeleteIssue(ctx, projectID, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting issue %d", id)
		return err
	}

	publishEvent(ctx, s.kafkaWriter, "issue", "deleted", strconv.Itoa(id), issue)

	return nil
}
