package service

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tracker-service/internal/entity"
)

type ProjectStore interface {
	CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error)
	GetProjectByID(ctx context.Context, id int) (*entity.Project, error)
	GetProjectsByContributor(ctx context.Context, userID int) ([]entity.Project, error)
	UpdateProject(ctx context.Context, project *entity.Project) (*entity.Project, error)
	DeleteProject(ctx context.Context, id int) error
}

type ProjectService struct {
	projects    ProjectStore
	kafkaWriter *kafka.Writer
}

func NewProjectService(projects ProjectStore, kafkaWriter *kafka.Writer) *ProjectService {
	return &ProjectService{projects: projects, kafkaWriter: kafkaWriter}
}

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

// CreateProject creates the project with the caller as author. The repository
// inserts the AUTHOR contributor row in the same transaction.
func (s *ProjectService) CreateProject(ctx context.Context, authorID int, req *CreateProjectRequest) (*entity.Project, error) {
	if req.Title == "" {
		return nil, entity.NewValidationError("title", "This field is required.")
	}
	if !entity.ValidProjectType(req.Type) {
		return nil, entity.NewValidationError("type", "Type must be one of BACKEND, FRONTEND, IOS, ANDROID.")
	}

	project := &entity.Project{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		AuthorID:    authorID,
	}

	created, err := s.projects.CreateProject(ctx, project)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating project")
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, "project", "created", strconv.Itoa(created.ID), created)

	return created, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int) (*entity.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting project by ID %d", id)
		return nil, err
	}

	return project, nil
}

// ListProjects returns only the projects the caller contributes to.
func (s *ProjectService) ListProjects(ctx context.Context, userID int) ([]entity.Project, error) {
	projects, err := s.projects.GetProjectsByContributor(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing projects for user %d", userID)
		return nil, err
	}

	return projects, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, entity.NewValidationError("title", "This field may not be blank.")
		}
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Type != nil {
		if !entity.ValidProjectType(*req.Type) {
			return nil, entity.NewValidationError("type", "Type must be one of BACKEND, FRONTEND, IOS, ANDROID.")
		}
		project.Type = *req.Type
	}

	updated, err := s.projects.UpdateProject(ctx, project)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating project %d", id)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, "project", "updated", strconv.Itoa(updated.ID), updated)

	return updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting project %d", id)
		return err
	}

	publishEvent(ctx, s.kafkaWriter, "project", "deleted", strconv.Itoa(id), map[string]int{"id": id})

	return nil
}
