package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aggregate holds the per-category mean normalized scores of one
// comparison population. Cached per (survey, quarter, scope key).
type Aggregate struct {
	Categories map[string]float64 `json:"categories"` // category -> mean normalized score
	Population int                `json:"population"`
	ComputedAt time.Time          `json:"computedAt"`
}

// BenchmarkCache handles Redis caching of benchmark aggregates so
// view-time comparisons do not rescan all attempts on every request.
type BenchmarkCache interface {
	Get(ctx context.Context, surveyID, quarter, scopeKey string) (*Aggregate, error)
	Set(ctx context.Context, surveyID, quarter, scopeKey string, agg *Aggregate) error
}

type benchmarkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBenchmarkCache creates a new benchmark aggregate cache
func NewBenchmarkCache(client *redis.Client) BenchmarkCache {
	return &benchmarkCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *benchmarkCache) key(surveyID, quarter, scopeKey string) string {
	return fmt.Sprintf("benchmark:%s:%s:%s", surveyID, quarter, scopeKey)
}

func (c *benchmarkCache) Get(ctx context.Context, surveyID, quarter, scopeKey string) (*Aggregate, error) {
	data, err := c.client.Get(ctx, c.key(surveyID, quarter, scopeKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var agg Aggregate
	if err := json.Unmarshal([]byte(data), &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (c *benchmarkCache) Set(ctx context.Context, surveyID, quarter, scopeKey string, agg *Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(surveyID, quarter, scopeKey), data, c.ttl).Err()
}
