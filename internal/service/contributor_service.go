package service

import (
	"context"

	"tracker-service/internal/entity"
)

type ContributorStore interface {
	CreateContributor(ctx context.Context, contributor *entity.Contributor) (*entity.Contributor, error)
	GetContributor(ctx context.Context, userID, projectID int) (*entity.Contributor, error)
	GetContributorsByProject(ctx context.Context, projectID int) ([]entity.Contributor, error)
	DeleteContributor(ctx context.Context, userID, projectID int) error
}

type ContributorUserStore interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
}

type ContributorService struct {
	contributors ContributorStore
	users        ContributorUserStore
}

func NewContributorService(contributors ContributorStore, users ContributorUserStore) *ContributorService {
	return &ContributorService{contributors: contributors, users: users}
}

type AddContributorRequest struct {
	UserID int `json:"user"`
}

// AddContributor puts a user on the project roster with role CONTRIBUTOR. The
// role cannot be chosen by the caller; the single AUTHOR row is created with
// the project and never through this path.
func (s *ContributorService) AddContributor(ctx context.Context, projectID int, req *AddContributorRequest) (*entity.Contributor, error) {
	user, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	contributor := &entity.Contributor{
		UserID:    user.ID,
		Username:  user.Username,
		ProjectID: projectID,
		Role:      entity.RoleContributor,
	}

	created, err := s.contributors.CreateContributor(ctx, contributor)
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding contributor %d to project %d", req.UserID, projectID)
		return nil, err
	}

	return created, nil
}

func (s *ContributorService) GetContributor(ctx context.Context, userID, projectID int) (*entity.Contributor, error) {
	contributor, err := s.contributors.GetContributor(ctx, userID, projectID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting contributor %d on project %d", userID, projectID)
		return nil, err
	}

	return contributor, nil
}

func (s *ContributorService) ListContributors(ctx context.Context, projectID int) ([]entity.Contributor, error) {
	contributors, err := s.contributors.GetContributorsByProject(ctx, projectID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing contributors for project %d", projectID)
		return nil, err
	}

	return contributors, nil
}

// RemoveContributor deletes a roster row. The AUTHOR row is never removable,
// whoever asks.
func (s *ContributorService) RemoveContributor(ctx context.Context, userID, projectID int) error {
	contributor, err := s.contributors.GetContributor(ctx, userID, projectID)
	if err != nil {
		return err
	}

	if contributor.Role == entity.RoleAuthor {
		return entity.ErrAuthorNotRemovable
	}

	if err := s.contributors.DeleteContributor(ctx, userID, projectID); err != nil {
		logger.Error().Err(err).Msgf("Error removing contributor %d from project %d", userID, projectID)
		return err
	}

	return nil
}
