package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"tracker-service/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (username, email, password, can_be_contacted, can_data_be_shared, age)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.CanBeContacted, user.CanDataBeShared, user.Age)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, entity.ErrUsernameTaken
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, username, email, password, can_be_contacted, can_data_be_shared, age, created_time
		FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.CanBeContacted, &user.CanDataBeShared, &user.Age, &user.CreatedTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, username, email, password, can_be_contacted, can_data_be_shared, age, created_time
		FROM users WHERE username = ?`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.CanBeContacted, &user.CanDataBeShared, &user.Age, &user.CreatedTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `UPDATE users SET username = ?, email = ?, password = ?, can_be_contacted = ?, can_data_be_shared = ?, age = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.CanBeContacted, user.CanDataBeShared, user.Age, user.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, entity.ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the account. Owned projects, contributor rows, authored
// issues and comments go with it through FK cascades; issues where the user is
// only the assignee get assignee_id set to NULL by the schema.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}

// isDuplicateKey reports whether err is a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
