package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CleanupWakeupKey لیستی که worker روی آن BLPOP می‌کند
const CleanupWakeupKey = "image_cleanup:wakeup"

type CleanupNotifierRedis struct {
	Client *redis.Client
	Key    string
	Logger *zap.Logger
}

func NewCleanupNotifierRedis(client *redis.Client, logger *zap.Logger) *CleanupNotifierRedis {
	return &CleanupNotifierRedis{
		Client: client,
		Key:    CleanupWakeupKey,
		Logger: logger,
	}
}

// Notify pushes a wake-up token. The list is trimmed to one element so
// bursts collapse into a single wake-up.
func (r *CleanupNotifierRedis) Notify(ctx context.Context) error {
	pipe := r.Client.TxPipeline()
	pipe.LPush(ctx, r.Key, time.Now().UnixNano())
	pipe.LTrim(ctx, r.Key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	r.Logger.Debug("Cleanup worker notified", zap.String("key", r.Key))
	return nil
}

func (r *CleanupNotifierRedis) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	_, err := r.Client.BLPop(ctx, timeout, r.Key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
