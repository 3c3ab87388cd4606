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

// TaskService orchestrates task mutations. Team members may create tasks in
// their projects; update and delete stay with the lead and admins. A task's
// sprint reference only needs to resolve to an existing sprint; a sprint in
// another project is accepted as-is.
type TaskService struct {
	repo     ports.TaskRepository
	projects ports.ProjectRepository
	refval   *validate.ReferenceValidator
	eval     *access.Evaluator
	logger   zerolog.Logger
}

func NewTaskService(
	repo ports.TaskRepository,
	projects ports.ProjectRepository,
	refval *validate.ReferenceValidator,
	eval *access.Evaluator,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
		refval:   refval,
		eval:     eval,
		logger:   logger,
	}
}

func (s *TaskService) List(ctx context.Context, actor *domain.Member) ([]domain.Task, error) {
	if actor == nil || actor.ID == "" {
		return nil, domain.ErrHidden
	}
	if actor.Privilege == domain.PrivilegeAdmin {
		return s.repo.List(ctx, ports.TaskFilter{All: true})
	}

	filter := ports.ProjectFilter{MemberID: actor.ID}
	if actor.Privilege == domain.PrivilegeDemo {
		filter.IncludeIDs = s.eval.DemoProjectIDs()
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []domain.Task{}, nil
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return s.repo.List(ctx, ports.TaskFilter{ProjectIDs: ids})
}

func (s *TaskService) Get(ctx context.Context, actor *domain.Member, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.relation(ctx, task.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionRead, access.ResourceTask, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, d.Err()
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, actor *domain.Member, in ports.TaskInput) (*domain.Task, error) {
	msgs := validateTaskFields(in)

	refMsgs, err := s.refval.References(ctx,
		validate.Ref("Project", validate.KindProject, in.Project),
		validate.Refs("Assignees", validate.KindMember, in.Assignees),
		validate.Ref("Sprint", validate.KindSprint, in.Sprint),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(append(msgs, refMsgs...)); verr != nil {
		return nil, verr
	}

	p, err := s.relation(ctx, in.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionCreate, access.ResourceTask, p); !d.Allowed() {
		return nil, d.Err()
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Project:     in.Project,
		Sprint:      in.Sprint,
		Title:       in.Title,
		Description: in.Description,
		Status:      taskStatusOrDefault(in.Status),
		CreatedBy:   actor.ID,
		Assignees:   in.Assignees,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("project_id", task.Project).Str("created_by", actor.ID).Msg("task created")
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, actor *domain.Member, id string, in ports.TaskInput) (*domain.Task, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	msgs := validateTaskFields(in)
	refMsgs, err := s.refval.References(ctx,
		validate.Ref("Project", validate.KindProject, in.Project),
		validate.Refs("Assignees", validate.KindMember, in.Assignees),
		validate.Ref("Sprint", validate.KindSprint, in.Sprint),
	)
	if err != nil {
		return nil, err
	}
	if verr := domain.NewValidationError(append(msgs, refMsgs...)); verr != nil {
		return nil, verr
	}

	p, err := s.relation(ctx, current.Project)
	if err != nil {
		return nil, err
	}
	if d := s.eval.Decide(actor, access.ActionUpdate, access.ResourceTask, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, d.Err()
	}

	current.Project = in.Project
	current.Sprint = in.Sprint
	current.Title = in.Title
	current.Description = in.Description
	current.Status = taskStatusOrDefault(in.Status)
	current.Assignees = in.Assignees
	current.UpdatedAt = time.Now().UTC()
	// CreatedBy is preserved: the creator is part of the task's history.

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", id).Msg("task updated")
	return current, nil
}

func (s *TaskService) Delete(ctx context.Context, actor *domain.Member, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p, err := s.relation(ctx, current.Project)
	if err != nil {
		return err
	}
	if d := s.eval.Decide(actor, access.ActionDelete, access.ResourceTask, p); !d.Allowed() {
		if errors.Is(d.Err(), domain.ErrHidden) {
			return domain.ErrTaskNotFound
		}
		return d.Err()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// relation resolves the task's project for the access decision. A dangling
// project reference yields nil, which the evaluator treats as admin-only.
// Store failures propagate; they are never a denial.
func (s *TaskService) relation(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func validateTaskFields(in ports.TaskInput) []string {
	var msgs []string
	if len(in.Assignees) == 0 {
		msgs = append(msgs, "Assignees must not be empty")
	}
	if in.Status != "" && !domain.TaskStatus(in.Status).Valid() {
		msgs = append(msgs, "Status: must be one of todo, in_progress, done")
	}
	return msgs
}

func taskStatusOrDefault(status string) domain.TaskStatus {
	if status == "" {
		return domain.TaskStatusTodo
	}
	return domain.TaskStatus(status)
}
