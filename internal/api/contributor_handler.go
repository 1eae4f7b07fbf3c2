package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"tracker-service/internal/entity"
	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

type ContributorHandler struct {
	contributorService *service.ContributorService
	policy             permission.Policy
}

func NewContributorHandler(contributorService *service.ContributorService, policy permission.Policy) *ContributorHandler {
	return &ContributorHandler{contributorService: contributorService, policy: policy}
}

// ListContributors lists the roster --> GET /projects/:project_id/contributors
func (h *ContributorHandler) ListContributors(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	contributors, err := h.contributorService.ListContributors(ctx, projectID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, contributors)
}

// AddContributor adds a user to the roster --> POST /projects/:project_id/contributors (author only)
func (h *ContributorHandler) AddContributor(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionWrite, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	req := service.AddContributorRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	contributor, err := h.contributorService.AddContributor(ctx, projectID, &req)
	if err != nil {
		// A bad user reference in the payload is a validation failure, not a
		// missing resource.
		if errors.Is(err, entity.ErrUserNotFound) {
			return c.JSON(400, map[string]string{"error": "This user does not exist."})
		}
		return errorJSON(c, err)
	}

	return c.JSON(201, contributor)
}

// GetContributor retrieves a roster entry --> GET /projects/:project_id/contributors/:user_id
// The roster is keyed by user id, not a synthetic contributor id.
func (h *ContributorHandler) GetContributor(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRead, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	contributor, err := h.contributorService.GetContributor(ctx, userID, projectID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, contributor)
}

// RemoveContributor removes a roster entry --> DELETE /projects/:project_id/contributors/:user_id (author only)
// The AUTHOR row is never removable.
func (h *ContributorHandler) RemoveContributor(c echo.Context) error {
	projectID, err := strconv.Atoi(c.Param("project_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	ctx := c.Request().Context()
	if err := h.policy.CanAct(ctx, actorID(c), permission.ActionRemove, permission.Scope{ProjectID: projectID}); err != nil {
		return errorJSON(c, err)
	}

	if err := h.contributorService.RemoveContributor(ctx, userID, projectID); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
