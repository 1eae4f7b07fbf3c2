package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"tracker-service/internal/entity"
	"tracker-service/internal/service"
)

// actorID pulls the authenticated user id out of the JWT the echo-jwt
// middleware verified.
func actorID(c echo.Context) int {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// errorJSON maps domain errors onto the HTTP contract: validation and
// conflict errors are 400, denied relationships 403, missing scopes 404.
func errorJSON(c echo.Context, err error) error {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(400, map[string]string{verr.Field: verr.Message})
	}

	switch {
	case errors.Is(err, entity.ErrAlreadyContributor),
		errors.Is(err, entity.ErrAuthorNotRemovable),
		errors.Is(err, entity.ErrUsernameTaken):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		return c.JSON(401, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		return c.JSON(403, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrProjectNotFound),
		errors.Is(err, entity.ErrContributorNotFound),
		errors.Is(err, entity.ErrIssueNotFound),
		errors.Is(err, entity.ErrCommentNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	}

	return c.JSON(500, map[string]string{"error": err.Error()})
}
