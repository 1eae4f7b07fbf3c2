package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"tracker-service/internal/entity"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Password2       string `json:"password2"`
	CanBeContacted  *bool  `json:"can_be_contacted"`
	CanDataBeShared *bool  `json:"can_data_be_shared"`
	Age             *int   `json:"age"`
}

type UpdateUserRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	Password2       *string `json:"password2"`
	CanBeContacted  *bool   `json:"can_be_contacted"`
	CanDataBeShared *bool   `json:"can_data_be_shared"`
	Age             *int    `json:"age"`
}

// Signup validates the registration payload and creates the account. The
// password is stored as a bcrypt hash; plaintext never reaches the database.
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*entity.User, error) {
	if req.Username == "" {
		return nil, entity.NewValidationError("username", "This field is required.")
	}
	if req.Email == "" {
		return nil, entity.NewValidationError("email", "This field is required.")
	}
	if req.Password == "" {
		return nil, entity.NewValidationError("password", "This field is required.")
	}
	if req.CanBeContacted == nil {
		return nil, entity.NewValidationError("can_be_contacted", "This field is required.")
	}
	if req.CanDataBeShared == nil {
		return nil, entity.NewValidationError("can_data_be_shared", "This field is required.")
	}
	if req.Age == nil {
		return nil, entity.NewValidationError("age", "This field is required.")
	}
	if req.Password != req.Password2 {
		return nil, entity.NewValidationError("password", "Password fields did not match.")
	}
	if *req.Age < entity.MinimumAge {
		return nil, entity.NewValidationError("age", "You must be at least 18 years old to register.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:        req.Username,
		Email:           req.Email,
		Password:        string(hash),
		CanBeContacted:  *req.CanBeContacted,
		CanDataBeShared: *req.CanDataBeShared,
		Age:             *req.Age,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating user %s", req.Username)
		return nil, err
	}

	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

// UpdateUser applies the provided fields only. The age floor and password
// confirmation rules from registration apply to updates as well.
func (s *UserService) UpdateUser(ctx context.Context, id int, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.CanBeContacted != nil {
		user.CanBeContacted = *req.CanBeContacted
	}
	if req.CanDataBeShared != nil {
		user.CanDataBeShared = *req.CanDataBeShared
	}
	if req.Age != nil {
		if *req.Age < entity.MinimumAge {
			return nil, entity.NewValidationError("age", "You must be at least 18 years old.")
		}
		user.Age = *req.Age
	}
	if req.Password != nil {
		if req.Password2 == nil || *req.Password != *req.Password2 {
			return nil, entity.NewValidationError("password", "Password fields did not match.")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	updated, err := s.users.UpdateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating user %d", id)
		return nil, err
	}

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting user %d", id)
		return err
	}

	return nil
}
