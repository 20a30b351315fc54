package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prismnews/prism/config"
)

const historyKey = "prism:detections:recent"

// Record is one finished detection kept in the rolling history.
type Record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// History keeps the most recent detection outcomes in a capped Redis list.
// It is an operator convenience, not part of the pipeline: append failures
// are logged by callers and never fail a request.
type History struct {
	client *redis.Client
	max    int64
}

// NewHistory connects to Redis and verifies the connection.
func NewHistory(ctx context.Context, cfg config.RedisConfig) (*History, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		DialTimeout: cfg.Timeout,
		Password:    cfg.Password,
		DB:          cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	max := int64(cfg.HistoryMax)
	if max <= 0 {
		max = 100
	}
	return &History{client: client, max: max}, nil
}

// Append pushes one record and trims the list to the configured cap.
func (h *History) Append(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, historyKey, payload)
	pipe.LTrim(ctx, historyKey, 0, h.max-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n records, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 || int64(n) > h.max {
		n = int(h.max)
	}
	raw, err := h.client.LRange(ctx, historyKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue // skip entries written by older versions
		}
		records = append(records, rec)
	}
	return records, nil
}
