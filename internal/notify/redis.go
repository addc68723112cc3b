// Package notify fans game updates out over Redis pub/sub. Delivery is
// best-effort: a failed publish is logged and dropped, never surfaced to the
// action that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Update is the message published after every committed action. Clients
// re-fetch the snapshot (or the events since their version) on receipt.
type Update struct {
	GameID    uuid.UUID `json:"game_id"`
	Version   int64     `json:"version"`
	Timestamp int64     `json:"timestamp"`
}

// Publisher implements the realtime notifier on a Redis client.
type Publisher struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewPublisher connects a Redis client and verifies it with a short ping.
func NewPublisher(addr string, db int, logger *logrus.Logger) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Publisher{rdb: rdb, log: logger}, nil
}

func channelFor(gameID uuid.UUID) string {
	return "magnate:game:" + gameID.String()
}

// GamePublished publishes one update to the game's channel. Errors are
// logged and swallowed so realtime hiccups never fail a committed action.
func (p *Publisher) GamePublished(ctx context.Context, gameID uuid.UUID, version int64) {
	data, err := json.Marshal(Update{
		GameID:    gameID,
		Version:   version,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		p.log.WithError(err).Warn("failed to marshal game update")
		return
	}
	if err := p.rdb.Publish(ctx, channelFor(gameID), data).Err(); err != nil {
		p.log.WithError(err).WithField("game", gameID).Warn("failed to publish game update")
	}
}

// Subscribe opens a pub/sub subscription for one game's channel. The caller
// must Close the returned subscription.
func (p *Publisher) Subscribe(ctx context.Context, gameID uuid.UUID) *redis.PubSub {
	return p.rdb.Subscribe(ctx, channelFor(gameID))
}

// Close releases the underlying Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
