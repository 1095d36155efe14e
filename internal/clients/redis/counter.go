package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

// ViewCounter tracks media and lesson view counts. Increments are fire and
// forget: failures are logged and never fail the primary request.
type ViewCounter interface {
	IncrMediaView(ctx context.Context, secureID string)
	IncrLessonView(ctx context.Context, lessonID string)
	Get(ctx context.Context, key string) (int64, error)
	Close() error
}

type viewCounter struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewViewCounter(log *logger.Logger) (ViewCounter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &viewCounter{
		log: log.With("service", "RedisViewCounter"),
		rdb: rdb,
	}, nil
}

func (vc *viewCounter) incr(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := vc.rdb.Incr(ctx, key).Err(); err != nil {
		vc.log.Warn("View count increment failed", "key", key, "error", err)
	}
}

func (vc *viewCounter) IncrMediaView(ctx context.Context, secureID string) {
	vc.incr(ctx, "views:media:"+secureID)
}

func (vc *viewCounter) IncrLessonView(ctx context.Context, lessonID string) {
	vc.incr(ctx, "views:lesson:"+lessonID)
}

func (vc *viewCounter) Get(ctx context.Context, key string) (int64, error) {
	n, err := vc.rdb.Get(ctx, key).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return n, err
}

func (vc *viewCounter) Close() error {
	return vc.rdb.Close()
}
