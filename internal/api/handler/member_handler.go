package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// MemberHandler handles HTTP requests for roster operations.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

type createMemberRequest struct {
	Name      string `json:"name"      validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
	Privilege string `json:"privilege" validate:"required,oneof=admin user demo"`
}

type updateMemberRequest struct {
	Name      string `json:"name"      validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Privilege string `json:"privilege" validate:"required,oneof=admin user demo"`
}

// List handles GET /members.
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.service.List(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: members})
}

// Get handles GET /members/:id.
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: member})
}

// Create handles POST /members — admin only.
//
// @Summary      Create a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMemberRequest  true  "Member fields"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorsResponse
// @Failure      403   {object}  errorsResponse
// @Router       /members [post]
func (h *MemberHandler) Create(c echo.Context) error {
	var req createMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.service.Create(c.Request().Context(), ctxActor(c), ports.CreateMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Privilege: req.Privilege,
	})
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("member", "create").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: member})
}

// Update handles PUT /members/:id — admin only, full replace of the
// admin-mutable fields.
func (h *MemberHandler) Update(c echo.Context) error {
	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), ports.UpdateMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Privilege: req.Privilege,
	})
	if err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("member", "update").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: member})
}

// Delete handles DELETE /members/:id — admin only. References to the
// member in teams, leads, and assignees are left dangling.
func (h *MemberHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("member", "delete").Inc()
	return c.JSON(http.StatusOK, dataResponse{Data: map[string]string{"id": c.Param("id")}})
}
