package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type projectRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Lead          string   `json:"lead" validate:"required"`
	Team          []string `json:"team"`
	NotifyChannel string   `json:"notify_channel"`
}

func (r projectRequest) toInput() ports.ProjectInput {
	return ports.ProjectInput{
		Name:          r.Name,
		Description:   r.Description,
		Lead:          r.Lead,
		Team:          r.Team,
		NotifyChannel: r.NotifyChannel,
	}
}

// List handles GET /projects — only projects visible to the actor.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: projects})
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: project})
}

// Create handles POST /projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project fields"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  errorsResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), ctxActor(c), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "create").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: project})
}

// Update handles PUT /projects/:id — a full replace of the listed fields.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "update").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: project})
}

// Delete handles DELETE /projects/:id. Sprints and tasks referencing the
// project are left in place.
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "delete").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: map[string]string{"id": c.Param("id")}})
}
