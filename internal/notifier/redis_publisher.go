package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/config"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

const defaultRedisChannel = "fitcal:payment-events"

// RedisNotifier publishes notifications to a Redis channel consumed by the
// notification worker.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisNotifier(cfg config.RedisConfig, logger *zap.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = defaultRedisChannel
	}

	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}, nil
}

func (r *RedisNotifier) Notify(ctx context.Context, n *usecase.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	r.logger.Debug("Notification published",
		zap.String("event_id", n.EventID),
		zap.String("channel", r.channel))
	return nil
}

func (r *RedisNotifier) Close() error {
	return r.client.Close()
}
