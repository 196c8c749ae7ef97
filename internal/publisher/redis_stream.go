package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/augur/internal/store"
)

// Stream names consumed by downstream services.
const (
	StreamEdges   = "props.edges.basketball_nba"
	StreamResults = "props.results.basketball_nba"
)

// RedisStreamPublisher publishes pipeline events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishEdgeSheet publishes a run's full pick sheet to the edges stream
func (rsp *RedisStreamPublisher) PublishEdgeSheet(ctx context.Context, runDate time.Time, sheet []*store.Edge) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamEdges,
		Values: map[string]interface{}{
			"run_date":  runDate.Format("2006-01-02"),
			"count":     len(sheet),
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// PublishGradedResults publishes a graded batch to the results stream
func (rsp *RedisStreamPublisher) PublishGradedResults(ctx context.Context, gradedDate time.Time, records []*store.ResultRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamResults,
		Values: map[string]interface{}{
			"graded_date": gradedDate.Format("2006-01-02"),
			"count":       len(records),
			"data":        string(data),
			"timestamp":   time.Now().Unix(),
		},
	}).Err()
}
