package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tracker-service/internal/entity"
	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	policy      permission.Policy
}

func NewUserHandler(userService *service.UserService, policy permission.Policy) *UserHandler {
	return &UserHandler{userService: userService, policy: policy}
}

// Signup creates a new account --> POST /signup (public)
func (h *UserHandler) Signup(c echo.Context) error {
	req := service.SignupRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.Signup(c.Request().Context(), &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, user)
}

// ListUsers returns the caller's own record --> GET /users
// Identity records are self-scoped; nobody can enumerate other accounts.
func (h *UserHandler) ListUsers(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), actorID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, []*entity.User{user})
}

// GetUser retrieves a user --> GET /users/:id (self only)
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{UserID: id}); err != nil {
		return errorJSON(c, err)
	}

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, user)
}

// UpdateUser updates a user --> PUT/PATCH /users/:id (self only)
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionModify, permission.Scope{UserID: id}); err != nil {
		return errorJSON(c, err)
	}

	req := service.UpdateUserRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.UpdateUser(ctx, id, &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, user)
}

// DeleteUser deletes a user --> DELETE /users/:id (self only)
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRemove, permission.Scope{UserID: id}); err != nil {
		return errorJSON(c, err)
	}

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
