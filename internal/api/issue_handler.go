package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

type IssueHandler struct {
	issueService *service.IssueService
	policy       permission.Policy
}

func NewIssueHandler(issueService *service.IssueService, policy permission.Policy) *IssueHandler {
	return &IssueHandler{issueService: issueService, policy: policy}
}

func issueScope(c echo.Context) (permission.Scope, bool) {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return permission.Scope{}, false
	}
	id, err := strconv.Atoi(c.Param("issue_id"))
	if err != nil {
		return permission.Scope{}, false
	}
	return permission.Scope{ProjectID: projectID, IssueID: id}, true
}

// ListIssues lists a project's issues --> GET /projects/:project_id/issues (contributors only)
func (h *IssueHandler) ListIssues(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	issues, err := h.issueService.ListIssues(ctx, projectID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, issues)
}

// CreateIssue files an issue --> POST /projects/:project_id/issues (contributors only)
func (h *IssueHandler) CreateIssue(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionWrite, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	req := service.CreateIssueRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	issue, err := h.issueService.CreateIssue(ctx, projectID, actorID(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, issue)
}

// GetIssue retrieves an issue --> GET /projects/:project_id/issues/:issue_id (contributors only)
func (h *IssueHandler) GetIssue(c echo.Context) error {
	scope, ok := issueScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, scope); err != nil {
		return errorJSON(c, err)
	}

	issue, err := h.issueService.GetIssue(ctx, scope.ProjectID, scope.IssueID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, issue)
}

// UpdateIssue updates an issue --> PUT/PATCH /projects/:project_id/issues/:issue_id (issue author only)
func (h *IssueHandler) UpdateIssue(c echo.Context) error {
	scope, ok := issueScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionModify, scope); err != nil {
		return errorJSON(c, err)
	}

	req := service.UpdateIssueRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	issue, err := h.issueService.UpdateIssue(ctx, scope.ProjectID, scope.IssueID, &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, issue)
}

// DeleteIssue deletes an issue --> DELETE /projects/:project_id/issues/:issue_id (issue author only)
func (h *IssueHandler) DeleteIssue(c echo.Context) error {
	scope, ok := issueScope(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRemove, scope); err != nil {
		return errorJSON(c, err)
	}

	if err := h.issueService.DeleteIssue(ctx, scope.ProjectID, scope.IssueID); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
