package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/cv-sync/internal/resumes"
)

// ResumeSavedChannel carries one JSON event per completed save.
const ResumeSavedChannel = "resume.saved"

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher announces saved resumes on a redis channel.
type Publisher struct {
	client  publisher
	channel string
}

func NewPublisher(client redis.Cmdable) *Publisher {
	return &Publisher{client: client, channel: ResumeSavedChannel}
}

func (p *Publisher) ResumeSaved(ctx context.Context, event resumes.SavedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal resume event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}
