package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aireadiness/internal/model"
)

// GuestCache handles Redis operations for guest answer buffers. The
// buffer is untrusted cache state mirrored after every answer write and
// consumed exactly once by the merge resolver.
type GuestCache interface {
	Save(ctx context.Context, guestID, surveyID string, buffer *model.GuestBuffer) error
	Load(ctx context.Context, guestID, surveyID string) (*model.GuestBuffer, error)
	Clear(ctx context.Context, guestID, surveyID string) error
}

type guestCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuestCache creates a new guest buffer cache
func NewGuestCache(client *redis.Client) GuestCache {
	return &guestCache{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func (c *guestCache) key(guestID, surveyID string) string {
	return fmt.Sprintf("guest:%s:survey:%s:buffer", guestID, surveyID)
}

// Save is an idempotent full overwrite of the buffer
func (c *guestCache) Save(ctx context.Context, guestID, surveyID string, buffer *model.GuestBuffer) error {
	buffer.GuestID = guestID
	buffer.SurveyID = surveyID
	buffer.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(buffer)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(guestID, surveyID), data, c.ttl).Err()
}

// Load returns the last saved buffer, or nil when none exists
func (c *guestCache) Load(ctx context.Context, guestID, surveyID string) (*model.GuestBuffer, error) {
	data, err := c.client.Get(ctx, c.key(guestID, surveyID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var buffer model.GuestBuffer
	if err := json.Unmarshal([]byte(data), &buffer); err != nil {
		return nil, err
	}
	return &buffer, nil
}

func (c *guestCache) Clear(ctx context.Context, guestID, surveyID string) error {
	return c.client.Del(ctx, c.key(guestID, surveyID)).Err()
}
