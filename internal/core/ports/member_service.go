package ports

import (
	"context"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// CreateMemberInput carries the fields an admin submits to create a member.
type CreateMemberInput struct {
	Name      string
	Email     string
	Password  string
	Privilege string
}

// UpdateMemberInput is a full replace of the admin-mutable fields.
// Identity (ID) and the password hash are not touched here.
type UpdateMemberInput struct {
	Name      string
	Email     string
	Privilege string
}

// MemberService defines use-case operations on the member roster.
// Every method takes the authenticated actor; access decisions live in the
// access evaluator, not in handlers.
type MemberService interface {
	List(ctx context.Context, actor *domain.Member) ([]domain.Member, error)
	Get(ctx context.Context, actor *domain.Member, id string) (*domain.Member, error)
	Create(ctx context.Context, actor *domain.Member, in CreateMemberInput) (*domain.Member, error)
	Update(ctx context.Context, actor *domain.Member, id string, in UpdateMemberInput) (*domain.Member, error)
	Delete(ctx context.Context, actor *domain.Member, id string) error
}
