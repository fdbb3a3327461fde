// Package resource holds the signed-in user's projects and the tasks of the
// project last opened, and keeps them in step with the server.
//
// Every operation shares one loading flag and one error slot. Concurrent
// operations race on them and whichever finishes last wins.
package resource

import (
	"context"
	"sync"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/keystore"
	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/sirupsen/logrus"
)

// Backend is the part of the API client the store calls.
type Backend interface {
	ListProjects(ctx context.Context, token, statusFilter string) ([]model.Project, error)
	CreateProject(ctx context.Context, token string, input model.ProjectInput) (model.Project, error)
	EditProject(ctx context.Context, token, projectID string, patch model.ProjectPatch) (model.Project, error)
	ChangeProjectStatus(ctx context.Context, token, projectID, status string) error
	ListTasks(ctx context.Context, token, projectID string) ([]model.Task, error)
	CreateTask(ctx context.Context, token string, input model.TaskInput) (model.Task, error)
	EditTask(ctx context.Context, token, taskID string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, token, taskID string) error
}

const (
	OpFetchProjects = "fetch_projects"
	OpCreateProject = "create_project"
	OpUpdateProject = "update_project"
	OpDeleteProject = "delete_project"
	OpFetchTasks    = "fetch_tasks"
	OpCreateTask    = "create_task"
	OpUpdateTask    = "update_task"
	OpDeleteTask    = "delete_task"
)

var messages = map[string]string{
	OpFetchProjects: "Failed to fetch projects",
	OpCreateProject: "Failed to create project",
	OpUpdateProject: "Failed to update project",
	OpDeleteProject: "Failed to delete project",
	OpFetchTasks:    "Failed to fetch tasks",
	OpCreateTask:    "Failed to create task",
	OpUpdateTask:    "Failed to update task",
	OpDeleteTask:    "Failed to delete task",
}

// OpError is returned by a failed operation. Its message is the one shown to
// the user; the classified cause is available through errors.As.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return messages[e.Op]
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// State is a snapshot of the store. Err is empty when the last operation to
// start has not failed.
type State struct {
	Projects []model.Project
	Tasks    []model.Task
	Loading  bool
	Err      string
}

type Store struct {
	backend        Backend
	kv             keystore.Store
	log            logrus.FieldLogger
	onUnauthorized func(context.Context)

	mu       sync.RWMutex
	projects []model.Project
	tasks    []model.Task
	loading  bool
	err      string

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithUnauthorizedHandler registers fn to run after an operation is rejected
// with 401 or 403. Typically fn signs the user out.
//
// fn runs synchronously on the goroutine that called the operation, after the
// failure is recorded and the store's lock is released. It may read or Reset
// the store, but it must not start another operation that could be rejected
// again, since that would call fn recursively.
func WithUnauthorizedHandler(fn func(context.Context)) Option {
	return func(s *Store) { s.onUnauthorized = fn }
}

// New builds a store that reads the bearer token from kv on every call.
func New(backend Backend, kv keystore.Store, opts ...Option) *Store {
	s := &Store{
		backend:     backend,
		kv:          kv,
		log:         logging.Discard(),
		projects:    []model.Project{},
		tasks:       []model.Task{},
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchProjects replaces the project list with the caller's active projects.
func (s *Store) FetchProjects(ctx context.Context) error {
	return s.run(ctx, OpFetchProjects, func(token string) (func(), error) {
		projects, err := s.backend.ListProjects(ctx, token, model.ProjectActive)
		if err != nil {
			return nil, err
		}
		return func() { s.projects = projects }, nil
	})
}

func (s *Store) CreateProject(ctx context.Context, input model.ProjectInput) error {
	return s.run(ctx, OpCreateProject, func(token string) (func(), error) {
		project, err := s.backend.CreateProject(ctx, token, input)
		if err != nil {
			return nil, err
		}
		return func() { s.projects = append(s.projects, project) }, nil
	})
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) error {
	return s.run(ctx, OpUpdateProject, func(token string) (func(), error) {
		project, err := s.backend.EditProject(ctx, token, id, patch)
		if err != nil {
			return nil, err
		}
		return func() {
			if !replace(s.projects, id, project, func(p model.Project) string { return p.ID }) {
				s.log.WithField("project_id", id).Warn("Updated project is not in the local list")
			}
		}, nil
	})
}

// DeleteProject soft-deletes a project on the server and drops it, with any
// of its tasks held locally, from the store.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.run(ctx, OpDeleteProject, func(token string) (func(), error) {
		if err := s.backend.ChangeProjectStatus(ctx, token, id, model.ProjectDeleted); err != nil {
			return nil, err
		}
		return func() {
			s.projects = remove(s.projects, func(p model.Project) bool { return p.ID == id })
			s.tasks = remove(s.tasks, func(t model.Task) bool { return t.ProjectID == id })
		}, nil
	})
}

// FetchTasks replaces the task list with the tasks of projectID. Tasks of any
// other project are discarded.
func (s *Store) FetchTasks(ctx context.Context, projectID string) error {
	return s.run(ctx, OpFetchTasks, func(token string) (func(), error) {
		tasks, err := s.backend.ListTasks(ctx, token, projectID)
		if err != nil {
			return nil, err
		}
		return func() { s.tasks = tasks }, nil
	})
}

func (s *Store) CreateTask(ctx context.Context, input model.TaskInput) error {
	return s.run(ctx, OpCreateTask, func(token string) (func(), error) {
		task, err := s.backend.CreateTask(ctx, token, input)
		if err != nil {
			return nil, err
		}
		return func() { s.tasks = append(s.tasks, task) }, nil
	})
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	return s.run(ctx, OpUpdateTask, func(token string) (func(), error) {
		task, err := s.backend.EditTask(ctx, token, id, patch)
		if err != nil {
			return nil, err
		}
		return func() {
			if !replace(s.tasks, id, task, func(t model.Task) string { return t.ID }) {
				s.log.WithField("task_id", id).Warn("Updated task is not in the local list")
			}
		}, nil
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.run(ctx, OpDeleteTask, func(token string) (func(), error) {
		if err := s.backend.DeleteTask(ctx, token, id); err != nil {
			return nil, err
		}
		return func() {
			s.tasks = remove(s.tasks, func(t model.Task) bool { return t.ID == id })
		}, nil
	})
}

// Reset empties both collections and clears the error. Used on sign-out.
func (s *Store) Reset() {
	s.mu.Lock()
	s.projects = []model.Project{}
	s.tasks = []model.Task{}
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// run reads the token, marks the store busy, calls the server and applies the
// returned mutation under the lock. Without a persisted credential it does
// nothing.
func (s *Store) run(ctx context.Context, op string, call func(token string) (func(), error)) error {
	token, ok := s.token(ctx)
	if !ok {
		s.log.WithField("operation", op).Debug("Skipped: no session")
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	apply, err := call(token)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = messages[op]
	} else {
		apply()
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"operation":  op,
			"error_type": apperrors.TypeOf(err),
		}).Error(messages[op])
		if apperrors.IsUnauthorized(err) && s.onUnauthorized != nil {
			s.onUnauthorized(ctx)
		}
		return &OpError{Op: op, Err: err}
	}
	return nil
}

func (s *Store) token(ctx context.Context) (string, bool) {
	cred, ok, err := keystore.LoadCredential(ctx, s.kv)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read persisted session")
		return "", false
	}
	return cred.Token, ok
}

func (s *Store) Projects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project(nil), s.projects...)
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failure, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Projects: append([]model.Project(nil), s.projects...),
		Tasks:    append([]model.Task(nil), s.tasks...),
		Loading:  s.loading,
		Err:      s.err,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify() {
	state := s.State()
	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

func replace[T any](items []T, id string, updated T, idOf func(T) string) bool {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = updated
			return true
		}
	}
	return false
}

func remove[T any](items []T, drop func(T) bool) []T {
	kept := items[:0:0]
	for _, item := range items {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
