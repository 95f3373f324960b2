package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/config"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	sqlBackend, closeSQL, err := OpenBackend(ctx, config.Config{
		SessionBackend: "sql",
		DatabaseURL:    filepath.Join(t.TempDir(), "session.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeSQL() })

	mr := miniredis.RunT(t)
	redisBackend, closeRedis, err := OpenBackend(ctx, config.Config{
		SessionBackend: "redis",
		RedisAddr:      mr.Addr(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeRedis() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"sql":    sqlBackend,
		"redis":  redisBackend,
	}
}

func TestStore_EmptyIsGuest(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b, "")
			sess, err := s.Get(context.Background())
			require.NoError(t, err)
			assert.False(t, sess.LoggedIn())
			assert.Equal(t, models.RoleGuest, sess.Role)
		})
	}
}

func TestStore_SetGetClear(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b, "sid-1")

			require.NoError(t, s.Set(ctx, "tok-1", models.RoleAdmin, "johnd"))
			sess, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.Session{Token: "tok-1", Role: models.RoleAdmin, Username: "johnd"}, sess)

			require.NoError(t, s.Set(ctx, "tok-2", models.RoleUser, "mor_2314"))
			sess, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", sess.Token)
			assert.Equal(t, models.RoleUser, sess.Role)

			require.NoError(t, s.Clear(ctx))
			sess, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.GuestSession(), sess)

			require.NoError(t, s.Clear(ctx))
		})
	}
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := New(b, "a")
			other := New(b, "b")

			require.NoError(t, a.Set(ctx, "tok-a", models.RoleAdmin, "johnd"))

			sess, err := other.Get(ctx)
			require.NoError(t, err)
			assert.False(t, sess.LoggedIn())

			require.NoError(t, other.Clear(ctx))
			sess, err = a.Get(ctx)
			require.NoError(t, err)
			assert.True(t, sess.IsAdmin())
		})
	}
}

func TestStore_MissingRoleMeansUser(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Set(ctx, DefaultNamespace, map[string]string{KeyToken: "tok"}))

	sess, err := New(b, "").Get(ctx)
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, models.RoleUser, sess.Role)
	assert.False(t, sess.IsAdmin())
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	err := New(NewMemoryBackend(), "").Set(context.Background(), "", models.RoleAdmin, "johnd")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestStore_SQLIsDurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{SessionBackend: "sql", DatabaseURL: filepath.Join(t.TempDir(), "session.db")}

	b, closeFn, err := OpenBackend(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, New(b, "").Set(ctx, "tok", models.RoleUser, "mor_2314"))
	require.NoError(t, closeFn())

	b, closeFn, err = OpenBackend(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	sess, err := New(b, "").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "mor_2314", sess.Username)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, _, err := OpenBackend(context.Background(), config.Config{SessionBackend: "etcd"})
	require.Error(t, err)
}
