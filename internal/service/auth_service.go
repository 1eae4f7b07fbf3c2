package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tracker-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type JwtCustomClaims struct {
	Name   string `json:"name"`
	UserID int    `json:"user_id"`
	jwt.RegisteredClaims
}

// Secret returns the HS256 signing key. Shared with the echo-jwt middleware.
func Secret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

type AuthService struct {
	users CredentialStore
	rdb   *redis.Client
}

func NewAuthService(users CredentialStore, rdb *redis.Client) *AuthService {
	return &AuthService{users: users, rdb: rdb}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for an access/refresh token pair. The refresh
// token is recorded in Redis so it can be revoked server-side before expiry.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	access, err := s.signToken(user, accessTokenTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(user, refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	err = s.rdb.Set(ctx, refreshKey(user.Username), refresh, refreshTokenTTL).Err()
	if err != nil {
		logger.Error().Err(err).Msgf("Error storing refresh token for user %s", user.Username)
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. The token must
// verify and still match the copy recorded at login.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims := &JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return Secret(), nil
	})
	if err != nil || !token.Valid {
		return "", entity.ErrInvalidCredentials
	}

	stored, err := s.rdb.Get(ctx, refreshKey(claims.Name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", entity.ErrInvalidCredentials
		}
		return "", err
	}
	if stored != refreshToken {
		return "", entity.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, claims.Name)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return "", entity.ErrInvalidCredentials
		}
		return "", err
	}

	return s.signToken(user, accessTokenTTL)
}

func (s *AuthService) signToken(user *entity.User, ttl time.Duration) (string, error) {
	claims := &JwtCustomClaims{
		Name:   user.Username,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(Secret())
}

func refreshKey(username string) string {
	return fmt.Sprintf("refresh-token:%s", username)
}
