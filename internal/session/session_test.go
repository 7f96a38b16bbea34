package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StateMachine(t *testing.T) {
	s := New()
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.LoggedIn(), "new session must be Anonymous")

	s.Authenticate("alice")
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "alice", s.Username)

	s.Clear()
	assert.False(t, s.LoggedIn())

	s.Clear()
	assert.False(t, s.LoggedIn(), "Clear must be idempotent")
}

func TestSession_NilIsAnonymous(t *testing.T) {
	var s *Session
	assert.False(t, s.LoggedIn())
}

func TestSession_FlashIsOneShot(t *testing.T) {
	s := New()
	s.SetFlash(FlashSuccess, "Produto cadastrado")

	f := s.PopFlash()
	require.NotNil(t, f)
	assert.Equal(t, FlashSuccess, f.Kind)
	assert.Equal(t, "Produto cadastrado", f.Message)
	assert.Nil(t, s.PopFlash())
}

func TestSession_FieldFlash(t *testing.T) {
	s := New()
	s.SetFieldFlash("preco", "Preço inválido")

	f := s.PopFlash()
	require.NotNil(t, f)
	assert.Equal(t, FlashError, f.Kind)
	assert.Equal(t, "preco", f.Field)
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	s := New()
	ctx := WithSession(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	_, err := store.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	s := New()
	s.Authenticate("alice")
	s.SetFlash(FlashWarning, "Nenhum registro encontrado!")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	require.NotNil(t, got.Flash)

	// Loaded copies are independent of the stored value.
	got.PopFlash()
	again, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, again.Flash)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, s.ID), "deleting twice is fine")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := New()
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(59 * time.Second)
	_, err := store.Load(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.sessions)
}

func TestMemoryStore_DefaultTTL(t *testing.T) {
	store := NewMemoryStore(0)
	assert.Equal(t, DefaultTTL, store.ttl)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedisStore(rdb, time.Minute)

	s := New()
	s.Authenticate("bob")
	require.NoError(t, store.Save(ctx, s))
	t.Cleanup(func() { _ = store.Delete(ctx, s.ID) })

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "bob", got.Username)

	ttl, err := rdb.TTL(ctx, keyPrefix+s.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
