// Package cache memoizes engine evaluations. Evaluation is deterministic
// for a fixed rule set, so a result keyed by the canonical record hash can
// be replayed safely. A small in-process LRU fronts an optional shared
// Redis tier; Redis failures trip a circuit breaker and degrade to the
// LRU only.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/t2dm-treatment-advisor/internal/domain"
)

const keyPrefix = "t2dm:eval:"

// EvaluationCache implements domain.EvaluationCache.
type EvaluationCache struct {
	logger  *logrus.Logger
	memory  *lru.Cache
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

// New creates an evaluation cache. When cfg.RedisEnabled is false the cache
// is purely in-process.
func New(cfg domain.CacheConfig, logger *logrus.Logger) (*EvaluationCache, error) {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 1024
	}
	memory, err := lru.New(maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	c := &EvaluationCache{
		logger: logger,
		memory: memory,
		ttl:    cfg.DefaultTTL,
	}

	if cfg.RedisEnabled {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts.PoolSize = cfg.PoolSize
		opts.PoolTimeout = cfg.PoolTimeout
		opts.MaxRetries = cfg.MaxRetries

		c.redis = redis.NewClient(opts)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "evaluation-cache-redis",
			Interval: time.Minute,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Cache circuit breaker state changed")
			},
		})
	}

	return c, nil
}

// RecordHash returns the canonical SHA-256 key for a patient record.
// json.Marshal emits map keys in sorted order, so equal records hash
// equally regardless of construction order.
func RecordHash(patient domain.PatientRecord) string {
	raw, err := json.Marshal(patient)
	if err != nil {
		// Marshal of a map[string]interface{} built from JSON input cannot
		// fail; an unhashable programmatic record just misses the cache.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns a memoized evaluation for the record hash, if any.
func (c *EvaluationCache) Get(ctx context.Context, recordHash string) (*domain.Evaluation, bool) {
	if recordHash == "" {
		return nil, false
	}

	if v, ok := c.memory.Get(recordHash); ok {
		if eval, ok := v.(*domain.Evaluation); ok {
			return eval, true
		}
	}

	if c.redis == nil {
		return nil, false
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.Get(ctx, keyPrefix+recordHash).Bytes()
	})
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Redis cache read failed")
		}
		return nil, false
	}

	var eval domain.Evaluation
	if err := json.Unmarshal(result.([]byte), &eval); err != nil {
		c.logger.WithError(err).Warn("Discarding undecodable cached evaluation")
		return nil, false
	}

	c.memory.Add(recordHash, &eval)
	return &eval, true
}

// Set stores an evaluation under the record hash in both tiers.
func (c *EvaluationCache) Set(ctx context.Context, recordHash string, eval *domain.Evaluation) {
	if recordHash == "" || eval == nil {
		return
	}

	c.memory.Add(recordHash, eval)

	if c.redis == nil {
		return
	}

	raw, err := json.Marshal(eval)
	if err != nil {
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, keyPrefix+recordHash, raw, c.ttl).Err()
	})
	if err != nil {
		c.logger.WithError(err).Debug("Redis cache write failed")
	}
}

// Len returns the number of entries in the in-process tier.
func (c *EvaluationCache) Len() int {
	return c.memory.Len()
}

// Close releases the Redis connection if one was configured.
func (c *EvaluationCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
