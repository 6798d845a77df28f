// Package redis holds thin wrappers over go-redis used by the services layer.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/auratrack-backend/internal/platform/envutil"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// FreshnessGate tracks when a user's daily rollup last completed, so repeated
// requests inside the freshness window skip reprocessing. All methods are
// nil-receiver safe: without Redis the gate reports stale and the rollup
// always runs.
type FreshnessGate interface {
	IsFresh(ctx context.Context, userID uuid.UUID) bool
	MarkProcessed(ctx context.Context, userID uuid.UUID)
	Invalidate(ctx context.Context, userID uuid.UUID)
	Close() error
}

type freshnessGate struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewFreshnessGate connects using REDIS_ADDR. A missing address is not an
// error; the caller gets a nil gate and analytics degrade to always-stale.
func NewFreshnessGate(log *logger.Logger) (FreshnessGate, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		// Typed nil keeps the nil-receiver methods callable.
		return (*freshnessGate)(nil), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &freshnessGate{
		log: log.With("client", "RedisFreshnessGate"),
		rdb: rdb,
		ttl: envutil.Duration("ANALYTICS_CACHE_TTL", 6*time.Hour),
	}, nil
}

func freshnessKey(userID uuid.UUID) string {
	return "summary_fresh:" + userID.String()
}

func (g *freshnessGate) IsFresh(ctx context.Context, userID uuid.UUID) bool {
	if g == nil || g.rdb == nil || userID == uuid.Nil {
		return false
	}
	n, err := g.rdb.Exists(ctx, freshnessKey(userID)).Result()
	if err != nil {
		g.log.Warn("freshness check failed", "user_id", userID, "error", err)
		return false
	}
	return n > 0
}

func (g *freshnessGate) MarkProcessed(ctx context.Context, userID uuid.UUID) {
	if g == nil || g.rdb == nil || userID == uuid.Nil {
		return
	}
	if err := g.rdb.Set(ctx, freshnessKey(userID), time.Now().UTC().Format(time.RFC3339), g.ttl).Err(); err != nil {
		g.log.Warn("freshness mark failed", "user_id", userID, "error", err)
	}
}

func (g *freshnessGate) Invalidate(ctx context.Context, userID uuid.UUID) {
	if g == nil || g.rdb == nil || userID == uuid.Nil {
		return
	}
	if err := g.rdb.Del(ctx, freshnessKey(userID)).Err(); err != nil {
		g.log.Warn("freshness invalidate failed", "user_id", userID, "error", err)
	}
}

func (g *freshnessGate) Close() error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Close()
}
