package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ChannelPrefix = "notifications:"

type EventType string

const (
	EventJobApplied   EventType = "job.applied"
	EventJobAccepted  EventType = "job.accepted"
	EventJobCompleted EventType = "job.completed"
	EventJobRated     EventType = "job.rated"
)

type Event struct {
	Type    EventType      `json:"type"`
	JobID   uuid.UUID      `json:"job_id"`
	ActorID uuid.UUID      `json:"actor_id"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Notifier delivers an event to one user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, ev Event)
}

func Channel(userID uuid.UUID) string {
	return ChannelPrefix + userID.String()
}

// Publisher fans events out over Redis pub/sub; every API instance's bridge picks them up.
type Publisher struct {
	RDB *redis.Client
	Log *zap.Logger
}

func NewPublisher(rdb *redis.Client, log *zap.Logger) *Publisher {
	return &Publisher{RDB: rdb, Log: log}
}

// Notify is best effort: failures are logged and swallowed.
func (p *Publisher) Notify(ctx context.Context, userID uuid.UUID, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		p.Log.Error("marshal notification", zap.Error(err), zap.String("type", string(ev.Type)))
		return
	}

	if err := p.RDB.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		p.Log.Warn("publish notification",
			zap.Error(err),
			zap.String("type", string(ev.Type)),
			zap.Stringer("user_id", userID),
		)
		return
	}
	p.Log.Debug("notification published",
		zap.String("type", string(ev.Type)),
		zap.Stringer("user_id", userID),
		zap.Stringer("job_id", ev.JobID),
	)
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, uuid.UUID, Event) {}
