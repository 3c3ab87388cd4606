package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// errorsResponse is the canonical error envelope for all API failures.
type errorsResponse struct {
	Errors []string `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes, preserving the
//     hidden-404 / forbidden-403 split the access layer decided on.
//   - Returns validation failures as a complete message list.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msgs := resolveError(err, log, c)
		_ = c.JSON(code, errorsResponse{Errors: msgs})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, []string) {
	// Echo's own errors (bind failures, 404 from the router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, []string{fmt.Sprintf("%v", he.Message)}
	}

	// Collected field/reference failures: the full list in one response.
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		metrics.ValidationFailuresTotal.Inc()
		return http.StatusBadRequest, verr.Messages
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, []string{"access forbidden"}
	case errors.Is(err, domain.ErrHidden):
		metrics.AccessDeniedTotal.WithLabelValues("hidden").Inc()
		return http.StatusNotFound, []string{"resource not found"}
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrSprintNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		metrics.AccessDeniedTotal.WithLabelValues("hidden").Inc()
		return http.StatusNotFound, []string{err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, []string{"invalid credentials"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, []string{err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, []string{"internal server error"}
}
