package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamtrack/tracker-api/internal/core/access"
	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
	"github.com/teamtrack/tracker-api/internal/core/validate"
)

// ProjectService orchestrates project mutations: reference validation of
// lead and team, one access decision, then the persistence write. Creation
// is admin-only; update and delete are open to the admin or the lead.
type ProjectService struct {
	repo   ports.ProjectRepository
	refval *validate.ReferenceValidator
	eval   *access.Evaluator
	logger zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, refval *validate.ReferenceValidator, eval *access.Evaluator, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, refval: refval, eval: eval, logger: logger}
}

func (s *ProjectService) List(ctx context.Context, actor *domain.Member) ([]domain.Project, error) {
	if actor == nil || actor.ID == "" {
		return nil, domain.ErrHidden
	}

	filter := ports.ProjectFilter{MemberID: actor.ID}
	switch actor.Privilege {
	case domain.PrivilegeAdmin:
		filter = ports.ProjectFilter{All: true}
	case domain.PrivilegeDemo:
		filter.IncludeIDs = s.eval.DemoProjectIDs()
	}
	return s.repo.List(ctx, filter)
}

func (s *ProjectService) Get(ctx context.Context, actor *domain.Member, id string) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := s.eval.Decide(actor, access.ActionRead, access.ResourceProject, p); !d.Allowed() {
		// Hidden reads collapse into the same 404 as a missing project.
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, d.Err()
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, actor *domain.Member, in ports.ProjectInput) (*domain.Project, error) {
	msgs, err := s.refval.References(ctx,
		validate.Ref("Lead", validate.KindMember, in.Lead),
		validate.Refs("Team", validate.KindMember, in.Team),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(msgs); verr != nil {
		return nil, verr
	}

	if d := s.eval.Decide(actor, access.ActionCreate, access.ResourceProject, nil); !d.Allowed() {
		return nil, d.Err()
	}

	now := time.Now().UTC()
	p := &domain.Project{
		Name:          in.Name,
		Description:   in.Description,
		Lead:          in.Lead,
		Team:          in.Team,
		NotifyChannel: in.NotifyChannel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", p.ID).Str("lead", p.Lead).Msg("project created")
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *domain.Member, id string, in ports.ProjectInput) (*domain.Project, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	msgs, err := s.refval.References(ctx,
		validate.Ref("Lead", validate.KindMember, in.Lead),
		validate.Refs("Team", validate.KindMember, in.Team),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(msgs); verr != nil {
		return nil, verr
	}

	// Access is decided against the stored project's lead/team, never the
	// payload's: a caller cannot grant itself the lead by submitting it.
	if d := s.eval.Decide(actor, access.ActionUpdate, access.ResourceProject, current); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, d.Err()
	}

	current.Name = in.Name
	current.Description = in.Description
	current.Lead = in.Lead
	current.Team = in.Team
	current.NotifyChannel = in.NotifyChannel
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", id).Msg("project updated")
	return current, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor *domain.Member, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if d := s.eval.Decide(actor, access.ActionDelete, access.ResourceProject, current); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return domain.ErrProjectNotFound
		}
		return d.Err()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Sprints and tasks referencing the project are left in place; there is
	// no cascade and no tombstoning.
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}
