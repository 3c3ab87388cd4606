package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// dataResponse is the standard success envelope for all endpoints.
type dataResponse struct {
	Data any `json:"data"`
}

// ctxActor rebuilds the authenticated member from the claims the Auth
// middleware injected. A nil return means no authenticated actor; services
// render that as a hidden 404, so handlers pass it through untouched.
func ctxActor(c echo.Context) *domain.Member {
	id, _ := c.Get("member_id").(string)
	if id == "" {
		return nil
	}
	name, _ := c.Get("name").(string)
	privilege, _ := c.Get("privilege").(string)

	return &domain.Member{
		ID:        id,
		Name:      name,
		Privilege: domain.Privilege(privilege),
	}
}
