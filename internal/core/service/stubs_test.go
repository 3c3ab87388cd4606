package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/teamtrack/tracker-api/internal/core/access"
	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
	"github.com/teamtrack/tracker-api/internal/core/validate"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	seq      int
	members  map[string]*domain.Member
	projects map[string]*domain.Project
	sprints  map[string]*domain.Sprint
	tasks    map[string]*domain.Task
	failNext error // if set, the next repository call returns this error
}

func newMemStore() *memStore {
	return &memStore{
		members:  make(map[string]*domain.Member),
		projects: make(map[string]*domain.Project),
		sprints:  make(map[string]*domain.Sprint),
		tasks:    make(map[string]*domain.Task),
	}
}

func (st *memStore) nextID(prefix string) string {
	st.seq++
	return fmt.Sprintf("%s_%d", prefix, st.seq)
}

func (st *memStore) takeErr() error {
	err := st.failNext
	st.failNext = nil
	return err
}

// --- members ---

type stubMemberRepo struct{ st *memStore }

func (r *stubMemberRepo) Insert(_ context.Context, m *domain.Member) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.takeErr(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = r.st.nextID("m")
	}
	clone := *m
	r.st.members[m.ID] = &clone
	return nil
}

func (r *stubMemberRepo) FindByID(_ context.Context, id string) (*domain.Member, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMemberRepo) FindByEmail(_ context.Context, email string) (*domain.Member, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, m := range r.st.members {
		if m.Email == email {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) List(_ context.Context) ([]domain.Member, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Member, 0, len(r.st.members))
	for _, m := range r.st.members {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMemberRepo) Update(_ context.Context, m *domain.Member) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.members[m.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	clone := *m
	r.st.members[m.ID] = &clone
	return nil
}

func (r *stubMemberRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.st.members, id)
	return nil
}

func (r *stubMemberRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.st.members[id]; ok {
			n++
		}
	}
	return n, nil
}

// --- projects ---

type stubProjectRepo struct{ st *memStore }

func (r *stubProjectRepo) Insert(_ context.Context, p *domain.Project) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.takeErr(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = r.st.nextID("p")
	}
	clone := *p
	r.st.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.takeErr(); err != nil {
		return nil, err
	}
	p, ok := r.st.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

// List applies the same visibility filter the real Mongo repo queries with.
func (r *stubProjectRepo) List(_ context.Context, filter ports.ProjectFilter) ([]domain.Project, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	include := make(map[string]struct{}, len(filter.IncludeIDs))
	for _, id := range filter.IncludeIDs {
		include[id] = struct{}{}
	}
	var out []domain.Project
	for _, p := range r.st.projects {
		if !filter.All {
			_, showcased := include[p.ID]
			if !showcased && !p.HasLead(filter.MemberID) && !p.HasTeamMember(filter.MemberID) {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	clone := *p
	r.st.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.st.projects, id)
	return nil
}

func (r *stubProjectRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.st.projects[id]; ok {
			n++
		}
	}
	return n, nil
}

// --- sprints ---

type stubSprintRepo struct{ st *memStore }

func (r *stubSprintRepo) Insert(_ context.Context, s *domain.Sprint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.takeErr(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = r.st.nextID("s")
	}
	clone := *s
	r.st.sprints[s.ID] = &clone
	return nil
}

func (r *stubSprintRepo) FindByID(_ context.Context, id string) (*domain.Sprint, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sprints[id]
	if !ok {
		return nil, domain.ErrSprintNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSprintRepo) List(_ context.Context, filter ports.SprintFilter) ([]domain.Sprint, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	match := make(map[string]struct{}, len(filter.ProjectIDs))
	for _, id := range filter.ProjectIDs {
		match[id] = struct{}{}
	}
	out := []domain.Sprint{}
	for _, s := range r.st.sprints {
		if !filter.All {
			if _, ok := match[s.Project]; !ok {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSprintRepo) Update(_ context.Context, s *domain.Sprint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.sprints[s.ID]; !ok {
		return domain.ErrSprintNotFound
	}
	clone := *s
	r.st.sprints[s.ID] = &clone
	return nil
}

func (r *stubSprintRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.sprints[id]; !ok {
		return domain.ErrSprintNotFound
	}
	delete(r.st.sprints, id)
	return nil
}

func (r *stubSprintRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.st.sprints[id]; ok {
			n++
		}
	}
	return n, nil
}

// --- tasks ---

type stubTaskRepo struct{ st *memStore }

func (r *stubTaskRepo) Insert(_ context.Context, t *domain.Task) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.takeErr(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = r.st.nextID("t")
	}
	clone := *t
	r.st.tasks[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]domain.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	match := make(map[string]struct{}, len(filter.ProjectIDs))
	for _, id := range filter.ProjectIDs {
		match[id] = struct{}{}
	}
	out := []domain.Task{}
	for _, t := range r.st.tasks {
		if !filter.All {
			if _, ok := match[t.Project]; !ok {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *t
	r.st.tasks[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.st.tasks, id)
	return nil
}

// --- recording notifier ---

type notification struct {
	channel string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(channelKey, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{channel: channelKey, message: message})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordingNotifier) last() notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

// ---------------------------------------------------------------------------
// Fixture: a store pre-seeded with the canonical cast of members/projects
// ---------------------------------------------------------------------------

type fixture struct {
	st       *memStore
	members  *stubMemberRepo
	projects *stubProjectRepo
	sprints  *stubSprintRepo
	tasks    *stubTaskRepo
	refval   *validate.ReferenceValidator
	eval     *access.Evaluator
	notifier *recordingNotifier

	admin    *domain.Member
	lead     *domain.Member
	teammate *domain.Member
	outsider *domain.Member
	demo     *domain.Member
	project  *domain.Project
}

func newFixture() *fixture {
	st := newMemStore()
	f := &fixture{
		st:       st,
		members:  &stubMemberRepo{st: st},
		projects: &stubProjectRepo{st: st},
		sprints:  &stubSprintRepo{st: st},
		tasks:    &stubTaskRepo{st: st},
		notifier: &recordingNotifier{},
	}
	f.refval = validate.NewReferenceValidator(validate.NewResolver(f.members, f.projects, f.sprints))
	f.eval = access.NewEvaluator([]string{"p_demo_1", "p_demo_2"})

	f.admin = f.seedMember("Ada", domain.PrivilegeAdmin)
	f.lead = f.seedMember("Lena", domain.PrivilegeUser)
	f.teammate = f.seedMember("Theo", domain.PrivilegeUser)
	f.outsider = f.seedMember("Omar", domain.PrivilegeUser)
	f.demo = f.seedMember("Demo", domain.PrivilegeDemo)

	f.project = &domain.Project{
		Name:          "Alpha",
		Lead:          f.lead.ID,
		Team:          []string{f.teammate.ID},
		NotifyChannel: "C_ALPHA",
	}
	_ = f.projects.Insert(context.Background(), f.project)
	return f
}

func (f *fixture) seedMember(name string, priv domain.Privilege) *domain.Member {
	m := &domain.Member{Name: name, Email: name + "@example.com", Privilege: priv}
	_ = f.members.Insert(context.Background(), m)
	return m
}

func (f *fixture) sprintService() *SprintService {
	return NewSprintService(f.sprints, f.projects, f.refval, f.eval, f.notifier, discardLogger)
}

func (f *fixture) taskService() *TaskService {
	return NewTaskService(f.tasks, f.projects, f.refval, f.eval, discardLogger)
}

func (f *fixture) projectService() *ProjectService {
	return NewProjectService(f.projects, f.refval, f.eval, discardLogger)
}

func (f *fixture) memberService() *MemberService {
	return NewMemberService(f.members, f.eval, discardLogger)
}
