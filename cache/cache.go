package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mohammad-safakhou/newscast/cache/inmemory"
	redis_cache "github.com/mohammad-safakhou/newscast/cache/redis"
	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/models"
)

// Store keeps finished report responses for a fixed time-to-live. Get never returns an
// entry inserted more than the TTL ago.
type Store interface {
	Get(ctx context.Context, key string) (models.ReportResponse, bool, error)
	Set(ctx context.Context, key string, value models.ReportResponse) error
}

// Key builds the cache identity of a request: the exact (topic, debate, area) tuple.
// Topic and area are quoted so separators inside them cannot collide.
func Key(req models.ReportRequest) string {
	return strconv.Quote(req.Topic) + "|" + strconv.FormatBool(req.Debate) + "|" + strconv.Quote(req.Area)
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

// NewStore builds the configured backend. The returned closer releases its resources.
func NewStore(ctx context.Context, cfg config.CacheConfig, redisCfg config.RedisConfig, logger *log.Logger) (Store, func() error, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	switch StoreType(cfg.Type) {
	case InMemoryStore:
		store := inmemory.NewStore(cfg.TTL, nil)
		stop := func() error { return nil }
		if cfg.SweepInterval > 0 {
			sweepCtx, cancel := context.WithCancel(ctx)
			go store.Sweep(sweepCtx, cfg.SweepInterval)
			stop = func() error { cancel(); return nil }
		}
		return store, stop, nil
	case RedisStore:
		client, err := redis_cache.Conn(ctx, redisCfg.Host, redisCfg.Port, redisCfg.Password, redisCfg.DB, redisCfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed (%s): %w", redisCfg.Addr(), err)
		}
		logger.Printf("report cache backed by redis at %s", redisCfg.Addr())
		return redis_cache.NewStore(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

// ensure the backends keep satisfying Store
var (
	_ Store = (*inmemory.Store)(nil)
	_ Store = (*redis_cache.Store)(nil)
)

// DefaultTTL is how long a report stays cached when nothing else is configured.
const DefaultTTL = time.Hour
