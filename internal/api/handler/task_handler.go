package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type taskRequest struct {
	Project     string   `json:"project"     validate:"required"`
	Sprint      string   `json:"sprint"`
	Title       string   `json:"title"       validate:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"      validate:"omitempty,oneof=todo in_progress done"`
	Assignees   []string `json:"assignees"   validate:"required,min=1"`
}

func (r taskRequest) toInput() ports.TaskInput {
	return ports.TaskInput{
		Project:     r.Project,
		Sprint:      r.Sprint,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Assignees:   r.Assignees,
	}
}

// List handles GET /tasks — tasks of every project visible to the actor.
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: tasks})
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: task})
}

// Create handles POST /tasks. CreatedBy is stamped from the actor.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      taskRequest  true  "Task fields"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ctxActor(c), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("task", "create").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: task})
}

// Update handles PUT /tasks/:id — a full replace of the listed fields.
func (h *TaskHandler) Update(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("task", "update").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: task})
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("task", "delete").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: map[string]string{"id": c.Param("id")}})
}
