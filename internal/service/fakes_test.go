package service

import (
	"context"
	"strings"
	"sync"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]dom.Task
	listCalls int
	fkErr     bool
}

func newFakeTaskRepo(tasks ...dom.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[string]dom.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID int64) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	return r.filter(func(t dom.Task) bool { return t.UserID == userID }), nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, userID int64, id string) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fkErr && t.ProjectID != nil {
		return dom.Task{}, &pgconn.PgError{Code: "23503"}
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, userID int64, id string, patch dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	r.tasks[id] = patch
	return patch, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID int64, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) SetCompleted(_ context.Context, userID int64, id string, done bool) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Completed = done
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) Search(_ context.Context, userID int64, q string) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	return r.filter(func(t dom.Task) bool {
		return t.UserID == userID && strings.Contains(strings.ToLower(t.Title), q)
	}), nil
}

func (r *fakeTaskRepo) filter(keep func(dom.Task) bool) []dom.Task {
	out := []dom.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	lists       map[int64][]dom.Task
	searches    map[string][]dom.Task
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: make(map[int64][]dom.Task), searches: make(map[string][]dom.Task)}
}

func (c *fakeCache) GetList(_ context.Context, userID int64) ([]dom.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists[userID], nil
}

func (c *fakeCache) SetList(_ context.Context, userID int64, list []dom.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[userID] = list
	return nil
}

func (c *fakeCache) GetSearch(_ context.Context, _ int64, q string) ([]dom.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searches[q], nil
}

func (c *fakeCache) SetSearch(_ context.Context, _ int64, q string, list []dom.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches[q] = list
	return nil
}

func (c *fakeCache) InvalidateAll(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, userID)
	c.searches = make(map[string][]dom.Task)
	c.invalidated++
	return nil
}

type fakePublisher struct {
	mu    sync.Mutex
	users []int64
}

func (p *fakePublisher) PublishChanged(_ context.Context, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
	return nil
}

type fakeUserRepo struct {
	users  map[string]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]dom.User), nextID: 1}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	if _, ok := r.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dom.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.nextID++
	r.users[username] = u
	return u, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeProfileRepo struct {
	profiles map[int64]dom.Profile
}

func (r *fakeProfileRepo) Get(_ context.Context, userID int64) (dom.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return dom.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p dom.Profile) (dom.Profile, error) {
	if r.profiles == nil {
		r.profiles = make(map[int64]dom.Profile)
	}
	r.profiles[p.UserID] = p
	return p, nil
}

type fakeProjectRepo struct {
	projects map[string]dom.Project
}

func (r *fakeProjectRepo) ListByUser(_ context.Context, userID int64) ([]dom.Project, error) {
	out := []dom.Project{}
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, userID int64, id string) (dom.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return dom.Project{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakeProjectRepo) Create(_ context.Context, p dom.Project) (dom.Project, error) {
	if r.projects == nil {
		r.projects = make(map[string]dom.Project)
	}
	r.projects[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, userID int64, id, name, color string) (dom.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return dom.Project{}, pgx.ErrNoRows
	}
	p.Name, p.Color = name, color
	r.projects[id] = p
	return p, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, userID int64, id string) error {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.projects, id)
	return nil
}

type toneRecorder struct {
	tones map[int64]string
}

func (r *toneRecorder) SetTone(userID int64, tone string) {
	if r.tones == nil {
		r.tones = make(map[int64]string)
	}
	r.tones[userID] = tone
}
