package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	statsService   *service.StatsService
	policy         permission.Policy
}

func NewProjectHandler(projectService *service.ProjectService, statsService *service.StatsService, policy permission.Policy) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, statsService: statsService, policy: policy}
}

// ListProjects lists the caller's projects --> GET /projects
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context(), actorID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, projects)
}

// CreateProject creates a project --> POST /projects
// The caller becomes the author and the AUTHOR contributor in one step.
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	req := service.CreateProjectRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), actorID(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, project)
}

// GetProject retrieves a project --> GET /projects/:project_id (contributors only)
func (h *ProjectHandler) GetProject(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{ProjectID: id}); err != nil {
		return errorJSON(c, err)
	}

	project, err := h.projectService.GetProject(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, project)
}

// UpdateProject updates a project --> PUT/PATCH /projects/:project_id (author only)
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionModify, permission.Scope{ProjectID: id}); err != nil {
		return errorJSON(c, err)
	}

	req := service.UpdateProjectRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	project, err := h.projectService.UpdateProject(ctx, id, &req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, project)
}

// DeleteProject deletes a project --> DELETE /projects/:project_id (author only)
// Contributors, issues and comments cascade with it.
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRemove, permission.Scope{ProjectID: id}); err != nil {
		return errorJSON(c, err)
	}

	if err := h.projectService.DeleteProject(ctx, id); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}

// ProjectStats returns issue-status counters --> GET /projects/:project_id/stats (contributors only)
func (h *ProjectHandler) ProjectStats(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{ProjectID: id}); err != nil {
		return errorJSON(c, err)
	}

	stats, err := h.statsService.ProjectIssueStats(ctx, id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, stats)
}
