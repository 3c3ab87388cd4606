package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// ProjectInput is the full set of client-settable project fields. PUT is a
// full replace of these fields, no partial patch semantics.
type ProjectInput struct {
	Name          string
	Description   string
	Lead          string
	Team          []string
	NotifyChannel string
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	List(ctx context.Context, actor *domain.Member) ([]domain.Project, error)
	Get(ctx context.Context, actor *domain.Member, id string) (*domain.Project, error)
	Create(ctx context.Context, actor *domain.Member, in ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, actor *domain.Member, id string, in ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, actor *domain.Member, id string) error
}
