// Package session owns the signed-in user and bearer token. It persists them
// through a keystore.Store and restores them on startup without contacting the
// server; the first API call made with a restored token is what validates it.
package session

import (
	"context"
	"sync"

	"github.com/Joseda-hg/lazyproject/internal/api"
	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/keystore"
	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/sirupsen/logrus"
)

// Authenticator is the part of the API client the manager needs.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (model.User, error)
	Register(ctx context.Context, req api.RegisterRequest) (model.User, error)
}

// State is a snapshot of the manager's observable fields.
type State struct {
	User      *model.User
	Token     string
	Loading   bool
	Restoring bool
}

func (s State) Active() bool {
	return s.User != nil && s.Token != ""
}

type Manager struct {
	auth Authenticator
	kv   keystore.Store
	log  logrus.FieldLogger

	mu        sync.RWMutex
	user      *model.User
	token     string
	loading   bool
	restoring bool

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

type Option func(*Manager)

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = log }
}

func New(auth Authenticator, kv keystore.Store, opts ...Option) *Manager {
	m := &Manager{
		auth:        auth,
		kv:          kv,
		log:         logging.Discard(),
		restoring:   true,
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads a persisted session. A missing or malformed pair leaves the
// session empty. Restoring() is false once this returns.
func (m *Manager) Restore(ctx context.Context) {
	cred, ok, err := keystore.LoadCredential(ctx, m.kv)
	if err != nil {
		m.log.WithError(err).Warn("Failed to read persisted session")
	}

	m.mu.Lock()
	if ok {
		user := cred.User
		m.user = &user
		m.token = cred.Token
	}
	m.restoring = false
	m.mu.Unlock()

	if ok {
		m.log.WithField("user_id", cred.User.ID).Info("Restored session")
	}
	m.notify()
}

// Login authenticates and, on success, replaces the current session. Any
// failure returns false and keeps the previous session.
func (m *Manager) Login(ctx context.Context, identifier, password string) bool {
	m.setLoading(true)
	defer m.setLoading(false)

	user, err := m.auth.Login(ctx, identifier, password)
	if err != nil {
		m.log.WithError(err).WithField("error_type", apperrors.TypeOf(err)).Warn("Login failed")
		return false
	}
	return m.establish(ctx, user)
}

// Register creates an account and signs straight into it.
func (m *Manager) Register(ctx context.Context, email, password, name string) bool {
	m.setLoading(true)
	defer m.setLoading(false)

	user, err := m.auth.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		m.log.WithError(err).WithField("error_type", apperrors.TypeOf(err)).Warn("Registration failed")
		return false
	}
	return m.establish(ctx, user)
}

func (m *Manager) establish(ctx context.Context, user model.User) bool {
	token := user.Token
	user.Token = ""

	if err := keystore.SaveCredential(ctx, m.kv, keystore.Credential{Token: token, User: user}); err != nil {
		m.log.WithError(err).Error("Failed to persist session")
		m.repersist(ctx)
		return false
	}

	m.mu.Lock()
	m.user = &user
	m.token = token
	m.mu.Unlock()

	m.log.WithField("user_id", user.ID).Info("Signed in")
	m.notify()
	return true
}

// repersist writes the in-memory session back after a failed save clobbered
// storage.
func (m *Manager) repersist(ctx context.Context) {
	state := m.State()
	if !state.Active() {
		return
	}
	if err := keystore.SaveCredential(ctx, m.kv, keystore.Credential{Token: state.Token, User: *state.User}); err != nil {
		m.log.WithError(err).Error("Failed to restore previous session in storage")
	}
}

// Logout clears the session in memory and in storage. Calling it without a
// session is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	hadSession := m.user != nil || m.token != ""
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	if err := keystore.ClearCredential(ctx, m.kv); err != nil {
		m.log.WithError(err).Warn("Failed to clear persisted session")
	}
	if hadSession {
		m.log.Info("Signed out")
		m.notify()
	}
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) Restoring() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restoring
}

func (m *Manager) Active() bool {
	return m.State().Active()
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state := State{Token: m.token, Loading: m.loading, Restoring: m.restoring}
	if m.user != nil {
		user := *m.user
		state.User = &user
	}
	return state
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	state := m.State()
	m.subMu.Lock()
	subs := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}
