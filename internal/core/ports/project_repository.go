package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// ProjectFilter scopes a project listing to what the actor may see.
// All=true disables scoping (admin). Otherwise a project matches when
// MemberID is its lead or on its team, or its id is in IncludeIDs (the demo
// allow-list).
type ProjectFilter struct {
	All        bool
	MemberID   string
	IncludeIDs []string
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Insert(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}
