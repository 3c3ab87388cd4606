package ports

import (
	"context"
	"time"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// SprintInput is the full set of client-settable sprint fields.
type SprintInput struct {
	Project   string
	Name      string
	Goal      string
	StartDate time.Time
	EndDate   time.Time
}

// SprintService defines use-case operations for sprints.
// List accepts an optional project id filter; an empty projectID lists all
// sprints visible to the actor.
type SprintService interface {
	List(ctx context.Context, actor *domain.Member, projectID string) ([]domain.Sprint, error)
	Get(ctx context.Context, actor *domain.Member, id string) (*domain.Sprint, error)
	Create(ctx context.Context, actor *domain.Member, in SprintInput) (*domain.Sprint, error)
	Update(ctx context.Context, actor *domain.Member, id string, in SprintInput) (*domain.Sprint, error)
	Delete(ctx context.Context, actor *domain.Member, id string) error
}
