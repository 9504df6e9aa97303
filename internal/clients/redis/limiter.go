package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lessonforge/lessonforge-backend/internal/logger"
)

// DailyLimiter counts AI generations per user per calendar day. Counter keys
// expire shortly after local midnight so the window resets itself.
type DailyLimiter interface {
	IncrToday(ctx context.Context, userID string) (int64, error)
	CountToday(ctx context.Context, userID string) (int64, error)
	Close() error
}

type dailyLimiter struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewDailyLimiter(log *logger.Logger) (DailyLimiter, error) {
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

	return &dailyLimiter{
		log: log.With("service", "RedisDailyLimiter"),
		rdb: rdb,
	}, nil
}

func (l *dailyLimiter) IncrToday(ctx context.Context, userID string) (int64, error) {
	if l == nil || l.rdb == nil {
		return 0, fmt.Errorf("redis daily limiter not initialized")
	}
	now := time.Now()
	key := usageKey(userID, now)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// first hit of the day sets the expiry just past midnight
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		if err := l.rdb.ExpireAt(ctx, key, midnight.Add(5*time.Minute)).Err(); err != nil {
			l.log.Warn("Failed to set usage key expiry", "error", err)
		}
	}
	return count, nil
}

func (l *dailyLimiter) CountToday(ctx context.Context, userID string) (int64, error) {
	if l == nil || l.rdb == nil {
		return 0, fmt.Errorf("redis daily limiter not initialized")
	}
	count, err := l.rdb.Get(ctx, usageKey(userID, time.Now())).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (l *dailyLimiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

func usageKey(userID string, now time.Time) string {
	return fmt.Sprintf("usage:ai:%s:%s", userID, now.Format("2006-01-02"))
}
