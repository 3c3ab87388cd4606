package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

func taskInput(f *fixture) ports.TaskInput {
	return ports.TaskInput{
		Project:   f.project.ID,
		Title:     "Wire the evaluator",
		Status:    "todo",
		Assignees: []string{f.teammate.ID},
	}
}

func TestTaskCreate_TeamMemberAllowed(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, err := svc.Create(context.Background(), f.teammate, taskInput(f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.CreatedBy != f.teammate.ID {
		t.Errorf("CreatedBy must be stamped from the actor, got %q", task.CreatedBy)
	}
	if task.Status != domain.TaskStatusTodo {
		t.Errorf("expected todo status, got %q", task.Status)
	}
}

func TestTaskCreate_DanglingAssigneeNamesField(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	in := taskInput(f)
	in.Assignees = []string{f.teammate.ID, "m_ghost"}

	_, err := svc.Create(context.Background(), f.lead, in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 1 {
		t.Fatalf("expected exactly one message, got %v", verr.Messages)
	}
	if !strings.Contains(verr.Messages[0], "Assignees") {
		t.Errorf("message must name Assignees, got %q", verr.Messages[0])
	}
	if len(f.st.tasks) != 0 {
		t.Error("failed reference validation must not persist anything")
	}
}

func TestTaskCreate_EmptyAssigneesRejected(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	in := taskInput(f)
	in.Assignees = nil

	_, err := svc.Create(context.Background(), f.lead, in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "Assignees") {
		t.Errorf("error must mention Assignees, got %q", verr.Error())
	}
}

// Field and reference problems come back together in one list.
func TestTaskCreate_CollectsAllFailures(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	in := ports.TaskInput{
		Project:   "p_ghost",
		Status:    "blocked",
		Assignees: []string{"m_ghost"},
	}
	_, err := svc.Create(context.Background(), f.lead, in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 3 {
		t.Fatalf("expected status + project + assignees messages, got %v", verr.Messages)
	}
}

// A sprint in another project is accepted; only existence is checked.
func TestTaskCreate_CrossProjectSprintAccepted(t *testing.T) {
	f := newFixture()

	other := &domain.Project{Name: "Beta", Lead: f.lead.ID}
	_ = f.projects.Insert(context.Background(), other)
	sprint := &domain.Sprint{Project: other.ID, Name: "Beta S1"}
	_ = f.sprints.Insert(context.Background(), sprint)

	in := taskInput(f)
	in.Sprint = sprint.ID
	task, err := f.taskService().Create(context.Background(), f.lead, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Sprint != sprint.ID {
		t.Errorf("sprint reference must be stored, got %q", task.Sprint)
	}
}

func TestTaskUpdate_TeamMemberForbiddenUnrelatedHidden(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, err := svc.Create(context.Background(), f.lead, taskInput(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(context.Background(), f.teammate, task.ID, taskInput(f)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("team member update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), f.outsider, task.ID, taskInput(f)); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("outsider update: expected hidden not-found, got %v", err)
	}
}

func TestTaskUpdate_PreservesCreator(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, _ := svc.Create(context.Background(), f.teammate, taskInput(f))

	updated, err := svc.Update(context.Background(), f.lead, task.ID, taskInput(f))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedBy != f.teammate.ID {
		t.Errorf("update must preserve CreatedBy, got %q", updated.CreatedBy)
	}
}

func TestTaskDelete_OnlyLeadOrAdmin(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, _ := svc.Create(context.Background(), f.lead, taskInput(f))

	if err := svc.Delete(context.Background(), f.teammate, task.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("team member delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), f.admin, task.ID); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestTaskGet_UnrelatedUserGetsNotFound(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, _ := svc.Create(context.Background(), f.lead, taskInput(f))

	if _, err := svc.Get(context.Background(), f.outsider, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected hidden not-found, got %v", err)
	}
}

func TestTaskList_ScopedToVisibleProjects(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	_, _ = svc.Create(context.Background(), f.lead, taskInput(f))

	hidden := &domain.Project{Name: "Hidden", Lead: f.admin.ID}
	_ = f.projects.Insert(context.Background(), hidden)
	in := taskInput(f)
	in.Project = hidden.ID
	in.Assignees = []string{f.admin.ID}
	_, _ = svc.Create(context.Background(), f.admin, in)

	visible, err := svc.List(context.Background(), f.teammate)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("teammate must only see own project's tasks, got %d", len(visible))
	}

	all, err := svc.List(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin must see every task, got %d", len(all))
	}
}

// An empty-string id is a dangling reference: it can never resolve, so the
// whole field fails and nothing is persisted.
func TestTaskCreate_EmptyStringAssigneeRejected(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	in := taskInput(f)
	in.Assignees = []string{""}

	_, err := svc.Create(context.Background(), f.lead, in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "Assignees") {
		t.Errorf("error must name Assignees, got %q", verr.Error())
	}
	if len(f.st.tasks) != 0 {
		t.Error("an empty assignee id must not persist a task")
	}
}

func TestTaskDelete_ProjectStoreFailurePropagates(t *testing.T) {
	f := newFixture()
	svc := f.taskService()

	task, err := svc.Create(context.Background(), f.lead, taskInput(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	errTransport := errors.New("connection reset")
	f.st.failNext = errTransport

	if err := svc.Delete(context.Background(), f.lead, task.ID); !errors.Is(err, errTransport) {
		t.Fatalf("expected the transport error to propagate, got %v", err)
	}
	if _, err := f.tasks.FindByID(context.Background(), task.ID); err != nil {
		t.Error("task must remain when the access stage could not run")
	}
}
