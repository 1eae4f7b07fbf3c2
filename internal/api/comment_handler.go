package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	policy         permission.Policy
}

func NewCommentHandler(commentService *service.CommentService, policy permission.Policy) *CommentHandler {
	return &CommentHandler{commentService: commentService, policy: policy}
}

func commentScope(c echo.Context) (permission.Scope, bool) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return permission.Scope{}, false
	}
	issueID, err := strconv.Atoi(c.Param("issue_id"))
	if err != nil {
		return permission.Scope{}, false
	}
	return permission.Scope{ProjectID: projectID, IssueID: issueID, CommentUUID: c.Param("uuid")}, true
}

// ListComments lists an issue's comments --> GET .../issues/:issue_id/comments (contributors only)
func (h *CommentHandler) ListComments(c echo.Context) error {
	scope, ok := commentScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, scope); err != nil {
		return errorJSON(c, err)
	}

	comments, err := h.commentService.ListComments(ctx, scope.IssueID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, comments)
}

// CreateComment adds a comment --> POST .../issues/:issue_id/comments (contributors only)
func (h *CommentHandler) CreateComment(c echo.Context) error {
	scope, ok := commentScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionWrite, scope); err != nil {
		return errorJSON(c, err)
	}

	req := service.CreateCommentRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	comment, err := h.commentService.CreateComment(ctx, scope.IssueID, actorID(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, comment)
}

// GetComment retrieves a comment --> GET .../comments/:uuid (contributors only)
func (h *CommentHandler) GetComment(c echo.Context) error {
	scope, ok := commentScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, scope); err != nil {
		return errorJSON(c, err)
	}

	comment, err := h.commentService.GetComment(ctx, scope.IssueID, scope.CommentUUID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, comment)
}

// UpdateComment updates a comment --> PUT/PATCH .../comments/:uuid (comment author only)
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	scope, ok := commentScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionModify, scope); err != nil {
		return errorJSON(c, err)
	}

	req := service.UpdateCommentRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	comment, err := h.commentService.UpdateComment(ctx, scope.IssueID, scope.CommentUUID, &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, comment)
}

// DeleteComment deletes a comment --> DELETE .../comments/:uuid (comment author only)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	scope, ok := commentScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRemove, scope); err != nil {
		return errorJSON(c, err)
	}

	if err := h.commentService.DeleteComment(ctx, scope.IssueID, scope.CommentUUID); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
