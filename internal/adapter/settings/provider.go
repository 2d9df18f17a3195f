package settings

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/setting"
	"prestamos-backend/pkg/logger"
)

const keyPrefix = "settings:"

// CachedProvider reads settings through redis with a TTL. Writes and
// Refresh overwrite the cached value, so a change is visible at once on
// every instance sharing the redis.
type CachedProvider struct {
	repo setting.Repository
	rdb  *redis.Client
	ttl  time.Duration
}

var _ setting.Provider = (*CachedProvider)(nil)

func NewCachedProvider(repo setting.Repository, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{repo: repo, rdb: rdb, ttl: ttl}
}

func (p *CachedProvider) Get(ctx context.Context, key string) (string, error) {
	if !setting.IsKnown(key) {
		return "", errs.NotFound("setting", key)
	}
	if p.rdb != nil {
		v, err := p.rdb.Get(ctx, keyPrefix+key).Result()
		switch {
		case err == nil:
			return v, nil
		case !errors.Is(err, redis.Nil):
			// redis trouble degrades to the database
			logger.Warn(ctx, "settings: cache read failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p.Refresh(ctx, key)
}

func (p *CachedProvider) Set(ctx context.Context, key, value string) error {
	if !setting.IsKnown(key) {
		return errs.NotFound("setting", key)
	}
	if err := p.repo.Upsert(ctx, key, value); err != nil {
		return err
	}
	p.store(ctx, key, value)
	logger.Info(ctx, "settings: updated", zap.String("key", key))
	return nil
}

// Refresh reloads one key from the database into the cache.
func (p *CachedProvider) Refresh(ctx context.Context, key string) (string, error) {
	if !setting.IsKnown(key) {
		return "", errs.NotFound("setting", key)
	}
	v, err := p.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	p.store(ctx, key, v)
	return v, nil
}

func (p *CachedProvider) store(ctx context.Context, key, value string) {
	if p.rdb == nil {
		return
	}
	if err := p.rdb.Set(ctx, keyPrefix+key, value, p.ttl).Err(); err != nil {
		logger.Warn(ctx, "settings: cache write failed", zap.String("key", key), zap.Error(err))
	}
}
