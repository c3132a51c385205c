package catalog

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// CachedRepo bungkus Repo dengan cache Redis untuk listing storefront.
// Cache best-effort: Redis down -> jatuh ke DB, tidak pernah gagalkan request.
type CachedRepo struct {
	*Repo
	Redis *redis.Client
	Log   *zap.Logger
}

func NewCachedRepo(repo *Repo, rdb *redis.Client, log *zap.Logger) *CachedRepo {
	return &CachedRepo{Repo: repo, Redis: rdb, Log: log}
}

func (c *CachedRepo) ListProducts(ctx context.Context) ([]Product, error) {
	if s, err := c.Redis.Get(ctx, redisx.KeyProductList).Result(); err == nil && s != "" {
		var out []Product
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out, nil
		}
		// entry korup: buang dan lanjut ke DB
		_ = c.Redis.Del(ctx, redisx.KeyProductList).Err()
	}

	out, err := c.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.Redis.Set(ctx, redisx.KeyProductList, b, redisx.TTLProductList).Err(); err != nil {
			c.Log.Debug("product cache set", zap.Error(err))
		}
	}
	return out, nil
}

// Invalidate dipanggil tiap mutasi katalog atau stok (order lifecycle).
func (c *CachedRepo) Invalidate(ctx context.Context) {
	if err := c.Redis.Del(ctx, redisx.KeyProductList).Err(); err != nil {
		c.Log.Debug("product cache invalidate", zap.Error(err))
	}
}
