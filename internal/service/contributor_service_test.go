package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker-service/internal/entity"
	"tracker-service/internal/service"
)

type fakeContributorStore struct {
	rows   []*entity.Contributor
	nextID int
}

func newFakeContributorStore() *fakeContributorStore {
	return &fakeContributorStore{nextID: 1}
}

func (f *fakeContributorStore) CreateContributor(ctx context.Context, contributor *entity.Contributor) (*entity.Contributor, error) {
	for _, row := range f.rows {
		if row.UserID == contributor.UserID && row.ProjectID == contributor.ProjectID {
			return nil, entity.ErrAlreadyContributor
		}
	}
	contributor.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, contributor)
	return contributor, nil
}

func (f *fakeContributorStore) GetContributor(ctx context.Context, userID, projectID int) (*entity.Contributor, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			return row, nil
		}
	}
	return nil, entity.ErrContributorNotFound
}

func (f *fakeContributorStore) GetContributorsByProject(ctx context.Context, projectID int) ([]entity.Contributor, error) {
	contributors := []entity.Contributor{}
	for _, row := range f.rows {
		if row.ProjectID == projectID {
			contributors = append(contributors, *row)
		}
	}
	return contributors, nil
}

func (f *fakeContributorStore) DeleteContributor(ctx context.Context, userID, projectID int) error {
	for i, row := range f.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return entity.ErrContributorNotFound
}

func TestAddContributor(t *testing.T) {
	users := newFakeUserStore()
	users.users[7] = &entity.User{ID: 7, Username: "bob"}
	store := newFakeContributorStore()
	svc := service.NewContributorService(store, users)
	ctx := context.Background()

	contributor, err := svc.AddContributor(ctx, 10, &service.AddContributorRequest{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, contributor.UserID)
	assert.Equal(t, "bob", contributor.Username)
	// The caller never chooses the role.
	assert.Equal(t, entity.RoleContributor, contributor.Role)
}

func TestAddContributorUnknownUser(t *testing.T) {
	svc := service.NewContributorService(newFakeContributorStore(), newFakeUserStore())

	_, err := svc.AddContributor(context.Background(), 10, &service.AddContributorRequest{UserID: 42})
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestAddContributorTwice(t *testing.T) {
	users := newFakeUserStore()
	users.users[7] = &entity.User{ID: 7, Username: "bob"}
	store := newFakeContributorStore()
	svc := service.NewContributorService(store, users)
	ctx := context.Background()

	_, err := svc.AddContributor(ctx, 10, &service.AddContributorRequest{UserID: 7})
	require.NoError(t, err)

	// Second add fails with a conflict and never creates a second row.
	_, err = svc.AddContributor(ctx, 10, &service.AddContributorRequest{UserID: 7})
	assert.ErrorIs(t, err, entity.ErrAlreadyContributor)

	rows, err := svc.ListContributors(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRemoveContributor(t *testing.T) {
	users := newFakeUserStore()
	users.users[7] = &entity.User{ID: 7, Username: "bob"}
	store := newFakeContributorStore()
	svc := service.NewContributorService(store, users)
	ctx := context.Background()

	_, err := svc.AddContributor(ctx, 10, &service.AddContributorRequest{UserID: 7})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveContributor(ctx, 7, 10))
	_, err = svc.GetContributor(ctx, 7, 10)
	assert.ErrorIs(t, err, entity.ErrContributorNotFound)
}

func TestRemoveAuthorRowFails(t *testing.T) {
	store := newFakeContributorStore()
	store.rows = append(store.rows, &entity.Contributor{
		ID: 1, UserID: 1, ProjectID: 10, Role: entity.RoleAuthor,
	})
	svc := service.NewContributorService(store, newFakeUserStore())
	ctx := context.Background()

	// The AUTHOR row is never removable, regardless of who asks; the policy
	// layer has already limited callers to the author themself.
	err := svc.RemoveContributor(ctx, 1, 10)
	assert.ErrorIs(t, err, entity.ErrAuthorNotRemovable)

	// Row still present.
	row, err := svc.GetContributor(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAuthor, row.Role)
}
