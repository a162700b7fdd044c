package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/timesheet-reporting/internal/config"
	"github.com/iliyamo/timesheet-reporting/internal/model"
)

// ClientReader is the read side of the client table.
type ClientReader interface {
	ListByName(ctx context.Context) ([]model.Client, error)
	GetByID(ctx context.Context, id string) (model.Client, error)
}

// CachedClients keeps the ordered client list in Redis for a short TTL.
// Single lookups go straight to the source so add-entry always sees the
// current table.
type CachedClients struct {
	src ClientReader
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewCachedClients wraps src.  With caching disabled or no Redis client it
// returns src unchanged.
func NewCachedClients(src ClientReader, rdb *redis.Client, cfg config.CacheConfig) ClientReader {
	if !cfg.Enabled || rdb == nil {
		return src
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedClients{src: src, rdb: rdb, key: cfg.Prefix + ":clients", ttl: ttl}
}

// ListByName serves the list from Redis when present.  Redis failures fall
// back to the source.
func (c *CachedClients) ListByName(ctx context.Context) ([]model.Client, error) {
	if bs, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil {
		var out []model.Client
		if err := json.Unmarshal(bs, &out); err == nil {
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("client cache: get: %v", err)
	}

	out, err := c.src.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	if bs, err := json.Marshal(out); err == nil {
		if err := c.rdb.SetEx(ctx, c.key, bs, c.ttl).Err(); err != nil {
			log.Warnf("client cache: set: %v", err)
		}
	}
	return out, nil
}

func (c *CachedClients) GetByID(ctx context.Context, id string) (model.Client, error) {
	return c.src.GetByID(ctx, id)
}
