package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// SprintHandler handles HTTP requests for sprint operations.
type SprintHandler struct {
	service ports.SprintService
}

func NewSprintHandler(service ports.SprintService) *SprintHandler {
	return &SprintHandler{service: service}
}

type sprintRequest struct {
	Project   string    `json:"project"    validate:"required"`
	Name      string    `json:"name"       validate:"required"`
	Goal      string    `json:"goal"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date"   validate:"required"`
}

func (r sprintRequest) toInput() ports.SprintInput {
	return ports.SprintInput{
		Project:   r.Project,
		Name:      r.Name,
		Goal:      r.Goal,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
	}
}

// List handles GET /sprints with an optional projectId query filter.
//
// @Summary      List visible sprints
// @Tags         sprints
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  query     string  false  "Scope the listing to one project"
// @Success      200        {object}  dataResponse
// @Failure      404        {object}  errorsResponse
// @Router       /sprints [get]
func (h *SprintHandler) List(c echo.Context) error {
	sprints, err := h.service.List(c.Request().Context(), ctxActor(c), c.QueryParam("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: sprints})
}

// Get handles GET /sprints/:id.
func (h *SprintHandler) Get(c echo.Context) error {
	sprint, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: sprint})
}

// Create handles POST /sprints.
//
// @Summary      Create a sprint
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sprintRequest  true  "Sprint fields"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Router       /sprints [post]
func (h *SprintHandler) Create(c echo.Context) error {
	var req sprintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sprint, err := h.service.Create(c.Request().Context(), ctxActor(c), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("sprint", "create").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: sprint})
}

// Update handles PUT /sprints/:id — a full replace of the listed fields.
func (h *SprintHandler) Update(c echo.Context) error {
	var req sprintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sprint, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("sprint", "update").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: sprint})
}

// Delete handles DELETE /sprints/:id.
func (h *SprintHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("sprint", "delete").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: map[string]string{"id": c.Param("id")}})
}
