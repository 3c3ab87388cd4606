package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtrack/tracker-api/internal/core/access"
	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// MemberService manages the member roster. Reads are open to any
// authenticated member; mutations are admin-only. Deleting a member does
// not scrub it from project teams, leads, or task assignees.
type MemberService struct {
	repo   ports.MemberRepository
	eval   *access.Evaluator
	logger zerolog.Logger
}

func NewMemberService(repo ports.MemberRepository, eval *access.Evaluator, logger zerolog.Logger) *MemberService {
	return &MemberService{repo: repo, eval: eval, logger: logger}
}

func (s *MemberService) List(ctx context.Context, actor *domain.Member) ([]domain.Member, error) {
	if d := s.eval.DecideRoster(actor, access.ActionList); !d.Allowed() {
		return nil, d.Err()
	}
	return s.repo.List(ctx)
}

func (s *MemberService) Get(ctx context.Context, actor *domain.Member, id string) (*domain.Member, error) {
	if d := s.eval.DecideRoster(actor, access.ActionRead); !d.Allowed() {
		return nil, d.Err()
	}
	return s.repo.FindByID(ctx, id)
}

func (s *MemberService) Create(ctx context.Context, actor *domain.Member, in ports.CreateMemberInput) (*domain.Member, error) {
	if d := s.eval.DecideRoster(actor, access.ActionCreate); !d.Allowed() {
		return nil, d.Err()
	}

	var msgs []string
	priv := domain.Privilege(in.Privilege)
	if !priv.Valid() {
		msgs = append(msgs, "Privilege: must be one of admin, user, demo")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}

	// Same uniqueness rule as self-service registration: a second member
	// with the same email would make login lookups ambiguous.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.Member{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Privilege:    priv,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().Str("member_id", m.ID).Str("privilege", string(m.Privilege)).Msg("member created")
	return m, nil
}

func (s *MemberService) Update(ctx context.Context, actor *domain.Member, id string, in ports.UpdateMemberInput) (*domain.Member, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := s.eval.DecideRoster(actor, access.ActionUpdate); !d.Allowed() {
		return nil, d.Err()
	}

	var msgs []string
	priv := domain.Privilege(in.Privilege)
	if !priv.Valid() {
		msgs = append(msgs, "Privilege: must be one of admin, user, demo")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.Email = in.Email
	current.Privilege = priv
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Str("member_id", id).Msg("member updated")
	return current, nil
}

func (s *MemberService) Delete(ctx context.Context, actor *domain.Member, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if d := s.eval.DecideRoster(actor, access.ActionDelete); !d.Allowed() {
		return d.Err()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Dangling references in lead/team/assignees are tolerated; no cascade.
	s.logger.Info().Str("member_id", id).Msg("member deleted")
	return nil
}
