package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamtrack/tracker-api/internal/core/access"
	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
	"github.com/teamtrack/tracker-api/internal/core/validate"
)

const notifyDateFormat = "Jan 2, 2006"

// SprintService orchestrates sprint mutations as a fixed pipeline: field
// invariants and reference checks are collected into one 400-class error
// list, the access decision gates the write, and a successful mutation
// fires at most one best-effort notification on the project's channel.
type SprintService struct {
	repo     ports.SprintRepository
	projects ports.ProjectRepository
	refval   *validate.ReferenceValidator
	eval     *access.Evaluator
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewSprintService(
	repo ports.SprintRepository,
	projects ports.ProjectRepository,
	refval *validate.ReferenceValidator,
	eval *access.Evaluator,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *SprintService {
	return &SprintService{
		repo:     repo,
		projects: projects,
		refval:   refval,
		eval:     eval,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the sprints the actor may see. With a project id the project
// gates the whole listing; a denied or missing project surfaces as a sprint
// not-found so callers cannot probe for hidden projects.
func (s *SprintService) List(ctx context.Context, actor *domain.Member, projectID string) ([]domain.Sprint, error) {
	if projectID != "" {
		p, err := s.projects.FindByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, domain.ErrProjectNotFound) {
				return nil, domain.ErrSprintNotFound
			}
			return nil, err
		}
		if d := s.eval.Decide(actor, access.ActionList, access.ResourceSprint, p); !d.Allowed() {
			if errors.Is(d.Err(), domain.ErrHidden) {
				return nil, domain.ErrSprintNotFound
			}
			return nil, d.Err()
		}
		return s.repo.List(ctx, ports.SprintFilter{ProjectIDs: []string{projectID}})
	}

	if actor == nil || actor.ID == "" {
		return nil, domain.ErrHidden
	}
	if actor.Privilege == domain.PrivilegeAdmin {
		return s.repo.List(ctx, ports.SprintFilter{All: true})
	}

	ids, err := s.visibleProjectIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Sprint{}, nil
	}
	return s.repo.List(ctx, ports.SprintFilter{ProjectIDs: ids})
}

func (s *SprintService) Get(ctx context.Context, actor *domain.Member, id string) (*domain.Sprint, error) {
	sprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.relation(ctx, sprint.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionRead, access.ResourceSprint, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrSprintNotFound
		}
		return nil, d.Err()
	}
	return sprint, nil
}

func (s *SprintService) Create(ctx context.Context, actor *domain.Member, in ports.SprintInput) (*domain.Sprint, error) {
	msgs := validateSprintDates(in)

	refMsgs, err := s.refval.References(ctx,
		validate.Ref("Project", validate.KindProject, in.Project),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(append(msgs, refMsgs...)); verr != nil {
		return nil, verr
	}

	// Access is evaluated against the REFERENCED project for creates.
	p, err := s.relation(ctx, in.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionCreate, access.ResourceSprint, p); !d.Allowed() {
		return nil, d.Err()
	}

	now := time.Now().UTC()
	sprint := &domain.Sprint{
		Project:   in.Project,
		Name:      in.Name,
		Goal:      in.Goal,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, sprint); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sprint_id", sprint.ID).Str("project_id", sprint.Project).Msg("sprint created")
	s.notifyProject(p, fmt.Sprintf("New Sprint Added: %s (%s - %s)",
		sprint.Name,
		sprint.StartDate.Format(notifyDateFormat),
		sprint.EndDate.Format(notifyDateFormat)))
	return sprint, nil
}

func (s *SprintService) Update(ctx context.Context, actor *domain.Member, id string, in ports.SprintInput) (*domain.Sprint, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	msgs := validateSprintDates(in)
	refMsgs, err := s.refval.References(ctx,
		validate.Ref("Project", validate.KindProject, in.Project),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(append(msgs, refMsgs...)); verr != nil {
		return nil, verr
	}

	// Access is evaluated against the TARGET sprint's project, not the
	// payload's: moving a sprint requires rights on the project it is in.
	p, err := s.relation(ctx, current.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionUpdate, access.ResourceSprint, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrSprintNotFound
		}
		return nil, d.Err()
	}

	changes := sprintDiff(current, in)

	current.Project = in.Project
	current.Name = in.Name
	current.Goal = in.Goal
	current.StartDate = in.StartDate
	current.EndDate = in.EndDate
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sprint_id", id).Msg("sprint updated")
	// No tracked field changed means nothing worth announcing.
	if len(changes) > 0 {
		s.notifyProject(p, strings.Join(changes, "\n"))
	}
	return current, nil
}

func (s *SprintService) Delete(ctx context.Context, actor *domain.Member, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p, err := s.relation(ctx, current.Project)
	if err != nil {
		return err
	}
	if d := s.eval.Decide(actor, access.ActionDelete, access.ResourceSprint, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return domain.ErrSprintNotFound
		}
		return d.Err()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("sprint_id", id).Msg("sprint deleted")
	s.notifyProject(p, fmt.Sprintf("Sprint Deleted: %s", current.Name))
	return nil
}

// relation resolves the sprint's project for the access decision. A
// dangling project reference yields nil, which the evaluator treats as
// admin-only. Store failures propagate; they are never a denial.
func (s *SprintService) relation(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *SprintService) visibleProjectIDs(ctx context.Context, actor *domain.Member) ([]string, error) {
	filter := ports.ProjectFilter{MemberID: actor.ID}
	if actor.Privilege == domain.PrivilegeDemo {
		filter.IncludeIDs = s.eval.DemoProjectIDs()
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// notifyProject fires a best-effort notification on the project's channel.
// Projects without a channel stay silent.
func (s *SprintService) notifyProject(p *domain.Project, message string) {
	if p == nil || p.NotifyChannel == "" {
		return
	}
	s.notifier.Notify(p.NotifyChannel, message)
}

// validateSprintDates enforces startDate <= endDate. Zero dates are caught
// by field validation at the handler; only the ordering lives here.
func validateSprintDates(in ports.SprintInput) []string {
	var msgs []string
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		msgs = append(msgs, "End Date must not be before Start Date")
	}
	return msgs
}

// sprintDiff composes the human-readable change lines for an update.
func sprintDiff(current *domain.Sprint, in ports.SprintInput) []string {
	var changes []string
	if in.Name != current.Name {
		changes = append(changes, fmt.Sprintf("New Sprint Name: %s", in.Name))
	}
	if in.Goal != current.Goal {
		changes = append(changes, fmt.Sprintf("New Goal: %s", in.Goal))
	}
	if !in.StartDate.Equal(current.StartDate) {
		changes = append(changes, fmt.Sprintf("New Start Date: %s", in.StartDate.Format(notifyDateFormat)))
	}
	if !in.EndDate.Equal(current.EndDate) {
		changes = append(changes, fmt.Sprintf("New End Date: %s", in.EndDate.Format(notifyDateFormat)))
	}
	return changes
}
