package redis

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/sentinel"
)

var loadDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "chainregistry_documents_redis_load_duration_ms",
	Help:    "Latency of document loads from Redis in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const (
	// Redis key prefix for document payloads
	documentKeyPrefix = "doc:sha256:"
	// Set of stored hashes, kept so Count does not need SCAN.
	documentIndexKey = "doc:index"
)

// Store is a Redis-backed document backend. It is meant for a single local
// Redis instance next to the API, not a replicated cluster.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveIfAbsent writes the payload with SETNX and indexes the hash in the same
// MULTI, so concurrent staging of identical bytes writes once and a stored
// payload is never left out of the index. Re-adding an indexed hash is a no-op,
// which also repairs entries written before the index existed.
func (s *Store) SaveIfAbsent(ctx context.Context, hash domain.ContentHash, payload string) (bool, error) {
	var stored *redis.BoolCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		stored = pipe.SetNX(ctx, documentKeyPrefix+string(hash), payload, 0)
		pipe.SAdd(ctx, documentIndexKey, string(hash))
		return nil
	})
	if err != nil {
		return false, err
	}
	return stored.Val(), nil
}

func (s *Store) Load(ctx context.Context, hash domain.ContentHash) (string, error) {
	start := time.Now()
	defer func() {
		loadDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	payload, err := s.client.Get(ctx, documentKeyPrefix+string(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return payload, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, documentIndexKey).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
