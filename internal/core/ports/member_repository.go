package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// MemberRepository defines persistence operations for members.
// Not-found is reported as domain.ErrMemberNotFound, never as a nil result.
type MemberRepository interface {
	// Insert persists a new member and fills in its generated ID.
	Insert(ctx context.Context, m *domain.Member) error
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	// Update replaces the mutable fields of the member identified by m.ID.
	Update(ctx context.Context, m *domain.Member) error
	Delete(ctx context.Context, id string) error
	// CountByIDs reports how many of the given ids exist (reference checks).
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}
