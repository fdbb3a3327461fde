package keystore

import (
	"context"
	"errors"
	"testing"

	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLStore(conn)
}

// exerciseStore runs the common contract against any backend.
func exerciseStore(t *testing.T, kv Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))
	value, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)

	require.NoError(t, kv.Remove(ctx, "k"))
	require.NoError(t, kv.Remove(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, newSQLStore(t))
}

func TestCredentialRoundTrip(t *testing.T) {
	for name, kv := range map[string]Store{"memory": NewMemoryStore(), "sql": newSQLStore(t)} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			user := model.User{ID: "u1", Name: "Demo", Email: "demo@example.com", Token: "leaked"}

			require.NoError(t, SaveCredential(ctx, kv, Credential{Token: "tok", User: user}))

			cred, ok, err := LoadCredential(ctx, kv)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "tok", cred.Token)
			assert.Equal(t, "u1", cred.User.ID)
			assert.Equal(t, "demo@example.com", cred.User.Email)
			assert.Empty(t, cred.User.Token, "token is not duplicated into the user record")

			require.NoError(t, ClearCredential(ctx, kv))
			_, ok, err = LoadCredential(ctx, kv)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLoadCredentialRequiresBothEntries(t *testing.T) {
	ctx := context.Background()

	onlyToken := NewMemoryStore()
	require.NoError(t, onlyToken.Set(ctx, TokenKey, "tok"))
	_, ok, err := LoadCredential(ctx, onlyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	onlyUser := NewMemoryStore()
	require.NoError(t, onlyUser.Set(ctx, UserKey, `{"id":"u1"}`))
	_, ok, err = LoadCredential(ctx, onlyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	malformed := NewMemoryStore()
	require.NoError(t, malformed.Set(ctx, TokenKey, "tok"))
	require.NoError(t, malformed.Set(ctx, UserKey, "{not json"))
	_, ok, err = LoadCredential(ctx, malformed)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStore struct {
	*MemoryStore
	failKey string
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestSaveCredentialRollsBackToken(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{MemoryStore: NewMemoryStore(), failKey: UserKey}

	err := SaveCredential(ctx, kv, Credential{Token: "tok", User: model.User{ID: "u1"}})
	require.Error(t, err)

	_, ok, err := kv.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "token must not survive without its user record")
}

func TestSaveCredentialRejectsEmptyToken(t *testing.T) {
	kv := NewMemoryStore()
	assert.Error(t, SaveCredential(context.Background(), kv, Credential{User: model.User{ID: "u1"}}))
	_, ok, _ := kv.Get(context.Background(), UserKey)
	assert.False(t, ok)
}
