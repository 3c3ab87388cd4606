package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

func sprintInput(projectID string) ports.SprintInput {
	return ports.SprintInput{
		Project:   projectID,
		Name:      "Sprint 1",
		Goal:      "Ship the API",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestSprintCreate_LeadSucceedsAndNotifies(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, err := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sprint.ID == "" {
		t.Error("sprint must get an id")
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected exactly one notification, got %d", f.notifier.count())
	}
	n := f.notifier.last()
	if n.channel != "C_ALPHA" {
		t.Errorf("notification must use the project channel, got %q", n.channel)
	}
	if !strings.Contains(n.message, "Sprint 1") {
		t.Errorf("notification must name the sprint, got %q", n.message)
	}
}

func TestSprintCreate_EndBeforeStartIsValidationError(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	in := sprintInput(f.project.ID)
	in.StartDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	in.EndDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), f.lead, in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "End Date") {
		t.Errorf("error must mention End Date, got %q", verr.Error())
	}
	if len(f.st.sprints) != 0 {
		t.Error("failed validation must not persist anything")
	}
	if f.notifier.count() != 0 {
		t.Error("failed validation must not notify")
	}
}

func TestSprintCreate_DanglingProjectReference(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	_, err := svc.Create(context.Background(), f.admin, sprintInput("p_ghost"))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "Project") {
		t.Errorf("error must name the Project field, got %q", verr.Error())
	}
}

// Team members may read sprints but not create them.
func TestSprintCreate_TeamMemberForbidden(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	_, err := svc.Create(context.Background(), f.teammate, sprintInput(f.project.ID))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.st.sprints) != 0 {
		t.Error("denied create must not persist anything")
	}
	if f.notifier.count() != 0 {
		t.Error("denied create must not notify")
	}
}

func TestSprintUpdate_DiffNotification(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, err := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := sprintInput(f.project.ID)
	in.StartDate = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Update(context.Background(), f.lead, sprint.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	if f.notifier.count() != 2 {
		t.Fatalf("expected create + update notifications, got %d", f.notifier.count())
	}
	msg := f.notifier.last().message
	if !strings.Contains(msg, "New Start Date: Jan 3, 2024") {
		t.Errorf("diff message must announce the new start date, got %q", msg)
	}
	if strings.Contains(msg, "New End Date") {
		t.Errorf("unchanged fields must not appear in the diff, got %q", msg)
	}
}

// Two identical PUTs: the second changes nothing, so nothing is sent.
func TestSprintUpdate_NoChangeNoNotification(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, err := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := f.notifier.count()

	for i := 0; i < 2; i++ {
		if _, err := svc.Update(context.Background(), f.lead, sprint.ID, sprintInput(f.project.ID)); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	if f.notifier.count() != before {
		t.Errorf("no-op updates must not notify, got %d extra", f.notifier.count()-before)
	}
}

func TestSprintDelete_TeamMemberDeniedSprintRemains(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, err := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), f.teammate, sprint.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.sprints.FindByID(context.Background(), sprint.ID); err != nil {
		t.Error("sprint must remain in the store after a denied delete")
	}
}

func TestSprintDelete_LeadSucceedsAndNotifies(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, _ := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err := svc.Delete(context.Background(), f.lead, sprint.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.sprints.FindByID(context.Background(), sprint.ID); !errors.Is(err, domain.ErrSprintNotFound) {
		t.Error("sprint must be gone after delete")
	}
	if !strings.Contains(f.notifier.last().message, "Sprint Deleted") {
		t.Errorf("delete must announce the removal, got %q", f.notifier.last().message)
	}
}

// Unrelated users asking for a visible-looking listing get a sprint
// not-found, never a forbidden: existence stays hidden on read paths.
func TestSprintList_UnrelatedUserGetsNotFound(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	_, _ = svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))

	_, err := svc.List(context.Background(), f.outsider, f.project.ID)
	if !errors.Is(err, domain.ErrSprintNotFound) {
		t.Fatalf("expected ErrSprintNotFound, got %v", err)
	}
}

func TestSprintList_ProjectFilterScopes(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	_, _ = svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))

	other := &domain.Project{Name: "Beta", Lead: f.admin.ID}
	_ = f.projects.Insert(context.Background(), other)
	_, _ = svc.Create(context.Background(), f.admin, sprintInput(other.ID))

	listed, err := svc.List(context.Background(), f.teammate, f.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected only the filtered project's sprints, got %d", len(listed))
	}
	if listed[0].Project != f.project.ID {
		t.Errorf("wrong project in listing: %s", listed[0].Project)
	}
}

func TestSprintList_NoFilterUsesVisibility(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	_, _ = svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))

	hidden := &domain.Project{Name: "Hidden", Lead: f.admin.ID}
	_ = f.projects.Insert(context.Background(), hidden)
	_, _ = svc.Create(context.Background(), f.admin, sprintInput(hidden.ID))

	listed, err := svc.List(context.Background(), f.teammate, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("teammate must only see own project's sprints, got %d", len(listed))
	}

	all, err := svc.List(context.Background(), f.admin, "")
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin must see every sprint, got %d", len(all))
	}
}

func TestSprintGet_DemoAllowListGrantsRead(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	showcase := &domain.Project{ID: "p_demo_1", Name: "Showcase", Lead: f.admin.ID}
	_ = f.projects.Insert(context.Background(), showcase)
	sprint, _ := svc.Create(context.Background(), f.admin, sprintInput(showcase.ID))

	got, err := svc.Get(context.Background(), f.demo, sprint.ID)
	if err != nil {
		t.Fatalf("demo read on showcased project: %v", err)
	}
	if got.ID != sprint.ID {
		t.Errorf("wrong sprint: %s", got.ID)
	}

	// Mutation on the same sprint stays denied.
	if _, err := svc.Update(context.Background(), f.demo, sprint.ID, sprintInput(showcase.ID)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("demo update must be forbidden, got %v", err)
	}
}

// A project without a channel stays silent even on successful mutations.
func TestSprintCreate_NoChannelNoNotification(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	quiet := &domain.Project{Name: "Quiet", Lead: f.lead.ID}
	_ = f.projects.Insert(context.Background(), quiet)

	if _, err := svc.Create(context.Background(), f.lead, sprintInput(quiet.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.notifier.count() != 0 {
		t.Errorf("expected no notification without a channel, got %d", f.notifier.count())
	}
}

// A store transport failure while resolving the sprint's project must
// surface as-is, never as a not-found denial.
func TestSprintGet_ProjectStoreFailurePropagates(t *testing.T) {
	f := newFixture()
	svc := f.sprintService()

	sprint, err := svc.Create(context.Background(), f.lead, sprintInput(f.project.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	errTransport := errors.New("connection reset")
	f.st.failNext = errTransport

	_, err = svc.Get(context.Background(), f.lead, sprint.ID)
	if !errors.Is(err, errTransport) {
		t.Fatalf("expected the transport error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrSprintNotFound) {
		t.Error("transport failure must not masquerade as not-found")
	}
}
