package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// HighlightEvent is the declarative highlight value for rendering layers:
// which section of which store a session is currently headed to. An empty
// SectionID clears the highlight. The navigation core only ever emits
// section ids; applying fill/stroke/opacity is the subscriber's business.
type HighlightEvent struct {
	SessionID string    `json:"session_id"`
	StoreID   string    `json:"store_id"`
	SectionID string    `json:"section_id"`
	At        time.Time `json:"at"`
}

type HighlightPublisher interface {
	PublishHighlight(ctx context.Context, event HighlightEvent) error
}

type redisHighlightPublisher struct {
	redisClient *redis.Client
	channel     string
}

func NewRedisHighlightPublisher(redisClient *redis.Client, channel string) HighlightPublisher {
	return &redisHighlightPublisher{
		redisClient: redisClient,
		channel:     channel,
	}
}

func (p *redisHighlightPublisher) PublishHighlight(ctx context.Context, event HighlightEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize highlight event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish highlight event: %w", err)
	}

	log.Debugf("Published highlight %s for session %s", event.SectionID, event.SessionID)
	return nil
}
