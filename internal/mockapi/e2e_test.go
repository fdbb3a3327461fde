package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/api"
	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/keystore"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/Joseda-hg/lazyproject/internal/resource"
	"github.com/Joseda-hg/lazyproject/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionAndStoreAgainstServer(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	kv := keystore.NewMemoryStore()

	sess := session.New(env.client, kv)
	sess.Restore(ctx)
	require.False(t, sess.Active())

	assert.False(t, sess.Login(ctx, "a@x.com", "bad"))
	_, ok, err := keystore.LoadCredential(ctx, kv)
	require.NoError(t, err)
	assert.False(t, ok, "failed login persists nothing")

	require.True(t, sess.Login(ctx, DemoEmail, DemoPassword))
	assert.Equal(t, "Demo User", sess.User().Name)

	store := resource.New(env.client, kv)
	require.NoError(t, store.FetchProjects(ctx))
	projects := store.Projects()
	require.Len(t, projects, 2, "only active projects are fetched")

	website := projects[0]
	require.NoError(t, store.FetchTasks(ctx, website.ID))
	require.Len(t, store.Tasks(), 4)

	mobile := projects[1]
	require.NoError(t, store.FetchTasks(ctx, mobile.ID))
	for _, task := range store.Tasks() {
		assert.Equal(t, mobile.ID, task.ProjectID)
	}

	require.NoError(t, store.CreateProject(ctx, model.ProjectInput{Title: "Docs", Status: model.ProjectActive}))
	require.Len(t, store.Projects(), 3)
	docs := store.Projects()[2]
	assert.Equal(t, "Docs", docs.Title)

	require.NoError(t, store.UpdateProject(ctx, docs.ID, model.ProjectPatch{Status: model.String(model.ProjectOnHold)}))
	assert.Equal(t, model.ProjectOnHold, store.Projects()[2].Status, "edit responses nested under result.project are applied")

	require.NoError(t, store.CreateTask(ctx, model.TaskInput{Title: "Write intro", DueDate: "2024-03-01", Status: model.TaskTodo, ProjectID: mobile.ID}))
	tasks := store.Tasks()
	created := tasks[len(tasks)-1]
	require.NoError(t, store.UpdateTask(ctx, created.ID, model.TaskPatch{Status: model.String(model.TaskDone)}))
	assert.Equal(t, model.TaskDone, store.Tasks()[len(tasks)-1].Status)

	require.NoError(t, store.DeleteProject(ctx, mobile.ID))
	assert.Empty(t, store.Tasks(), "tasks of the deleted project are dropped")
	require.NoError(t, store.FetchProjects(ctx))
	for _, p := range store.Projects() {
		assert.NotEqual(t, mobile.ID, p.ID)
	}

	restarted := session.New(env.client, kv)
	restarted.Restore(ctx)
	assert.Equal(t, sess.State(), restarted.State())

	sess.Logout(ctx)
	require.NoError(t, store.FetchProjects(ctx), "no credential means no request")
	restarted = session.New(env.client, kv)
	restarted.Restore(ctx)
	assert.False(t, restarted.Active())
}

func TestRejectedTokenSignsOut(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	kv := keystore.NewMemoryStore()

	sess := session.New(env.client, kv)
	sess.Restore(ctx)
	require.True(t, sess.Login(ctx, DemoEmail, DemoPassword))

	store := resource.New(env.client, kv, resource.WithUnauthorizedHandler(sess.Logout))
	require.NoError(t, store.FetchProjects(ctx))

	env.clock.Advance(DefaultTokenTTL + time.Minute)
	err := store.FetchProjects(ctx)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch projects", store.Err())
	assert.Len(t, store.Projects(), 2, "stale list stays")
	assert.False(t, sess.Active())

	_, ok, err := keystore.LoadCredential(ctx, kv)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreSurvivesServerRestart(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store := db.NewStore(conn, nil)
	require.NoError(t, Seed(ctx, store, bcrypt.MinCost))
	kv := keystore.NewSQLStore(conn)

	// start mirrors a process launch: the secret comes from the shared db.
	start := func() *api.Client {
		secret, err := LoadOrCreateSecret(ctx, kv)
		require.NoError(t, err)
		cfg := DefaultConfig()
		cfg.JWTSecret = secret
		cfg.BcryptCost = bcrypt.MinCost
		srv, err := NewServer(store, cfg)
		require.NoError(t, err)
		ts := httptest.NewServer(srv.Handler())
		t.Cleanup(ts.Close)
		return api.NewClient(ts.URL)
	}

	first := start()
	sess := session.New(first, kv)
	sess.Restore(ctx)
	require.True(t, sess.Login(ctx, DemoEmail, DemoPassword))

	second := start()
	restarted := session.New(second, kv)
	restarted.Restore(ctx)
	require.True(t, restarted.Active())

	projects := resource.New(second, kv)
	require.NoError(t, projects.FetchProjects(ctx), "token from the previous run is accepted")
	assert.Len(t, projects.Projects(), 2)
}

func TestLoadOrCreateSecretIsStable(t *testing.T) {
	ctx := context.Background()
	kv := keystore.NewMemoryStore()

	first, err := LoadOrCreateSecret(ctx, kv)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := LoadOrCreateSecret(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, kv.Set(ctx, SecretKey, "configured"))
	third, err := LoadOrCreateSecret(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "configured", third)
}
