package realtime

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/config"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/notify"
)

// NewRedis creates a Redis client from config and checks it is reachable.
func NewRedis(ctx context.Context, cfg config.Config, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("redis connected", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	return rdb, nil
}

// Bridge forwards notifications published on Redis to the sockets held by this instance.
type Bridge struct {
	RDB *redis.Client
	Hub *Hub
	Log *zap.Logger
}

func NewBridge(rdb *redis.Client, hub *Hub, log *zap.Logger) *Bridge {
	return &Bridge{RDB: rdb, Hub: hub, Log: log}
}

// Run subscribes to every user channel and blocks until ctx is done.
// ready, if non-nil, is closed once the subscription is confirmed.
func (b *Bridge) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := b.RDB.PSubscribe(ctx, notify.ChannelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg)
		}
	}
}

func (b *Bridge) forward(msg *redis.Message) {
	userID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, notify.ChannelPrefix))
	if err != nil {
		b.Log.Warn("notification on malformed channel", zap.String("channel", msg.Channel))
		return
	}
	b.Hub.SendRaw(userID, []byte(msg.Payload))
}
