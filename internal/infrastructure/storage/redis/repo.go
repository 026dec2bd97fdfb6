package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	kindInsights = "insights"
	kindTargets  = "targets"
	kindChanges  = "securities_changed"
)

type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":targets:latest"
	stream    string
	channel   string
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, stream, channel string) *Repo {
	if strings.TrimSpace(stream) == "" {
		stream = prefix + ":events"
	}
	if strings.TrimSpace(channel) == "" {
		channel = prefix + ":events:pub"
	}
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":targets:latest",
		stream:    stream,
		channel:   channel,
	}
}

func (r *Repo) LatestKey() string { return r.keyLatest }
func (r *Repo) Stream() string    { return r.stream }
func (r *Repo) Channel() string   { return r.channel }

// Close is a no-op: the client is owned by the container.
func (r *Repo) Close() error { return nil }

func (r *Repo) InsertInsights(ctx context.Context, algorithm string, ts int64, insights []model.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	b, err := json.Marshal(insights)
	if err != nil {
		return err
	}
	_, err = r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"kind":      kindInsights,
			"algorithm": algorithm,
			"ts_ms":     ts,
			"count":     len(insights),
			"payload":   string(b),
		},
	}).Result()
	return err
}

func (r *Repo) InsertTargetBatch(ctx context.Context, batch *model.TargetBatch) error {
	b, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	// Hash: field = algorithm -> latest batch json
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, batch.Algorithm, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"kind":      kindTargets,
			"algorithm": batch.Algorithm,
			"ts_ms":     batch.Timestamp,
			"count":     len(batch.Targets),
			"payload":   string(b),
		},
	})
	pipe.Publish(ctx, r.channel, envelope(kindTargets, b))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSecurityChanges(ctx context.Context, algorithm string, ts int64, changes model.SecurityChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	b, err := json.Marshal(changes)
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"kind":      kindChanges,
			"algorithm": algorithm,
			"ts_ms":     ts,
			"count":     changes.Count(),
			"payload":   string(b),
		},
	})
	pipe.Publish(ctx, r.channel, envelope(kindChanges, b))
	_, err = pipe.Exec(ctx)
	return err
}

// LatestTargetBatch reads back the batch stored for algorithm; nil when absent.
func (r *Repo) LatestTargetBatch(ctx context.Context, algorithm string) (*model.TargetBatch, error) {
	s, err := r.rdb.HGet(ctx, r.keyLatest, algorithm).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b model.TargetBatch
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func envelope(kind string, payload []byte) string {
	msg, _ := json.Marshal(struct {
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}{Kind: kind, Payload: payload})
	return string(msg)
}

var _ port.Repository = (*Repo)(nil)
