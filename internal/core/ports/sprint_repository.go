package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// SprintFilter scopes a sprint listing. All=true returns every sprint
// (admin); otherwise only sprints whose project id is in ProjectIDs match.
type SprintFilter struct {
	All        bool
	ProjectIDs []string
}

// SprintRepository defines persistence operations for sprints.
type SprintRepository interface {
	Insert(ctx context.Context, s *domain.Sprint) error
	FindByID(ctx context.Context, id string) (*domain.Sprint, error)
	List(ctx context.Context, filter SprintFilter) ([]domain.Sprint, error)
	Update(ctx context.Context, s *domain.Sprint) error
	Delete(ctx context.Context, id string) error
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}
