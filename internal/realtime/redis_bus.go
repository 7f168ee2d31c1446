package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans events out over a Redis pub/sub channel so every server
// instance can forward them to its own websocket clients.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

func NewRedisBus(addr, password, channel string) (*RedisBus, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}
	if channel == "" {
		channel = "portfolio:realtime"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *RedisBus) StartForwarder(ctx context.Context, onEvent func(Event)) error {
	if onEvent == nil {
		return errors.New("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// Receive confirms the subscription before we return
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					slog.Warn("bad realtime payload", "channel", b.channel, "error", err)
					continue
				}
				onEvent(e)
			}
		}
	}()

	return nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
