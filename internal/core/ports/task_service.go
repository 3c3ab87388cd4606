package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// TaskInput is the full set of client-settable task fields. CreatedBy is
// never client-settable: on create it is stamped from the actor, on update
// it is preserved from the stored task.
type TaskInput struct {
	Project     string
	Sprint      string
	Title       string
	Description string
	Status      string
	Assignees   []string
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	List(ctx context.Context, actor *domain.Member) ([]domain.Task, error)
	Get(ctx context.Context, actor *domain.Member, id string) (*domain.Task, error)
	Create(ctx context.Context, actor *domain.Member, in TaskInput) (*domain.Task, error)
	Update(ctx context.Context, actor *domain.Member, id string, in TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, actor *domain.Member, id string) error
}
