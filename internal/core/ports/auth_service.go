package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// RegisterInput carries self-service registration fields. Registered
// accounts always start with the user privilege; only admins change it.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Member, error)
	Login(ctx context.Context, email, password string) (string, *domain.Member, error)
}
