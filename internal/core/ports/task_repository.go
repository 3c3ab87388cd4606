package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// TaskFilter scopes a task listing. All=true returns every task (admin);
// otherwise only tasks whose project id is in ProjectIDs match.
type TaskFilter struct {
	All        bool
	ProjectIDs []string
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Insert(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
