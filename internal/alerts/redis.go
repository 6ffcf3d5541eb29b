package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher appends alerts to a capped Redis list and announces each one
// on a Pub/Sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	key     string
	channel string
	maxLen  int64
	logger  *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, key, channel string, maxLen int64, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, key: key, channel: channel, maxLen: maxLen, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, a Alert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	pipe := p.rdb.TxPipeline()
	pipe.RPush(ctx, p.key, data)
	pipe.LTrim(ctx, p.key, -p.maxLen, -1)
	if p.channel != "" {
		pipe.Publish(ctx, p.channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Recent(ctx context.Context, n int) ([]Alert, error) {
	if n <= 0 {
		return []Alert{}, nil
	}
	entries, err := p.rdb.LRange(ctx, p.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}

	return decodeAlerts(entries, p.key, p.logger), nil
}

// decodeAlerts turns oldest-first list entries into newest-first alerts.
// Entries that are not valid alerts are skipped and reported.
func decodeAlerts(entries []string, key string, logger *zap.Logger) []Alert {
	out := make([]Alert, 0, len(entries))
	skipped := 0
	var firstErr error
	for _, item := range entries {
		var a Alert
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			skipped++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, a)
	}
	if skipped > 0 {
		logger.Warn("skipped undecodable alerts",
			zap.String("key", key),
			zap.Int("skipped", skipped),
			zap.Int("read", len(entries)),
			zap.Error(firstErr))
	}
	slices.Reverse(out)
	return out
}
