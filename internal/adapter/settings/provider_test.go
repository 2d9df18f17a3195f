package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/setting"
)

type memRepo struct {
	values map[string]string
	gets   int
}

func (m *memRepo) Get(_ context.Context, key string) (string, error) {
	m.gets++
	return m.values[key], nil
}

func (m *memRepo) Upsert(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func newProvider(t *testing.T) (*CachedProvider, *memRepo, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := &memRepo{values: map[string]string{setting.KeyDocumentTargetEmail: "docs@example.com"}}
	return NewCachedProvider(repo, rdb, time.Minute), repo, s
}

func TestCachedProvider_GetCachesWithTTL(t *testing.T) {
	p, repo, s := newProvider(t)
	ctx := context.Background()

	v, err := p.Get(ctx, setting.KeyDocumentTargetEmail)
	require.NoError(t, err)
	require.Equal(t, "docs@example.com", v)

	v, err = p.Get(ctx, setting.KeyDocumentTargetEmail)
	require.NoError(t, err)
	require.Equal(t, "docs@example.com", v)
	require.Equal(t, 1, repo.gets)
	require.Equal(t, time.Minute, s.TTL(keyPrefix+setting.KeyDocumentTargetEmail))

	// a change made behind the cache shows up after expiry
	repo.values[setting.KeyDocumentTargetEmail] = "new@example.com"
	s.FastForward(2 * time.Minute)
	v, err = p.Get(ctx, setting.KeyDocumentTargetEmail)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", v)
}

func TestCachedProvider_SetAndRefresh(t *testing.T) {
	p, repo, _ := newProvider(t)
	ctx := context.Background()

	require.NoError(t, p.Set(ctx, setting.KeyDocumentFromEmail, "no-reply@example.com"))
	v, err := p.Get(ctx, setting.KeyDocumentFromEmail)
	require.NoError(t, err)
	require.Equal(t, "no-reply@example.com", v)
	require.Equal(t, 0, repo.gets)

	repo.values[setting.KeyDocumentFromEmail] = "ops@example.com"
	v, err = p.Refresh(ctx, setting.KeyDocumentFromEmail)
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", v)
	v, _ = p.Get(ctx, setting.KeyDocumentFromEmail)
	require.Equal(t, "ops@example.com", v)
}

func TestCachedProvider_UnknownKey(t *testing.T) {
	p, _, _ := newProvider(t)
	_, err := p.Get(context.Background(), "smtp_password")
	require.True(t, errors.Is(err, errs.ErrNotFound))
	require.True(t, errors.Is(p.Set(context.Background(), "x", "y"), errs.ErrNotFound))
}

func TestCachedProvider_RedisDownFallsBackToDB(t *testing.T) {
	p, repo, s := newProvider(t)
	s.Close()

	v, err := p.Get(context.Background(), setting.KeyDocumentTargetEmail)
	require.NoError(t, err)
	require.Equal(t, "docs@example.com", v)
	require.Equal(t, 1, repo.gets)
}
