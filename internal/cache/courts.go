// Package cache keeps court snapshots in Redis in front of the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/training"
)

// DefaultTTL is how long a court snapshot stays cached.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "courtsched:court:"

// NewClient creates a Redis client.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// CourtCache is a read-through training.CourtRepository.
// Redis failures are logged and fall back to the wrapped repository.
type CourtCache struct {
	client *redis.Client
	inner  training.CourtRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCourtCache wraps inner with a Redis cache.
func NewCourtCache(client *redis.Client, inner training.CourtRepository, ttl time.Duration, logger *zap.Logger) *CourtCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourtCache{client: client, inner: inner, ttl: ttl, logger: logger}
}

type cachedSchedule struct {
	Weekday int  `json:"weekday"`
	Active  bool `json:"active"`
	Opening int  `json:"opening"`
	Closing int  `json:"closing"`
}

type cachedCourt struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Schedule []cachedSchedule `json:"schedule"`
}

func encodeCourt(c *training.Court) ([]byte, error) {
	cc := cachedCourt{ID: c.ID, Name: c.Name}
	for wd := training.Sunday; wd <= training.Saturday; wd++ {
		ds, ok := c.WeeklySchedule[wd]
		if !ok {
			continue
		}
		cc.Schedule = append(cc.Schedule, cachedSchedule{
			Weekday: int(wd),
			Active:  ds.Active,
			Opening: ds.OpeningMinutes,
			Closing: ds.ClosingMinutes,
		})
	}
	return json.Marshal(cc)
}

func decodeCourt(data []byte) (*training.Court, error) {
	var cc cachedCourt
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, err
	}
	c := &training.Court{
		ID:             cc.ID,
		Name:           cc.Name,
		WeeklySchedule: make(map[training.Weekday]training.DaySchedule, len(cc.Schedule)),
	}
	for _, s := range cc.Schedule {
		c.WeeklySchedule[training.Weekday(s.Weekday)] = training.DaySchedule{
			Active:         s.Active,
			OpeningMinutes: s.Opening,
			ClosingMinutes: s.Closing,
		}
	}
	return c, nil
}

// GetCourt returns the cached court, loading and caching it on a miss.
func (c *CourtCache) GetCourt(ctx context.Context, id string) (*training.Court, error) {
	key := keyPrefix + id

	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		court, decErr := decodeCourt(val)
		if decErr == nil {
			return court, nil
		}
		c.logger.Warn("dropping undecodable cached court", zap.String("court_id", id), zap.Error(decErr))
		_ = c.client.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("court cache unavailable", zap.String("court_id", id), zap.Error(err))
		return c.inner.GetCourt(ctx, id)
	}

	court, err := c.inner.GetCourt(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := encodeCourt(court)
	if err != nil {
		return nil, fmt.Errorf("encoding court: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("caching court failed", zap.String("court_id", id), zap.Error(err))
	}
	return court, nil
}

// SaveCourt writes through to the wrapped repository and drops the cached copy.
func (c *CourtCache) SaveCourt(ctx context.Context, court *training.Court) error {
	if err := c.inner.SaveCourt(ctx, court); err != nil {
		return err
	}
	c.Invalidate(ctx, court.ID)
	return nil
}

// ListCourts is not cached.
func (c *CourtCache) ListCourts(ctx context.Context) ([]*training.Court, error) {
	return c.inner.ListCourts(ctx)
}

// Invalidate removes a court from the cache.
func (c *CourtCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.logger.Warn("invalidating cached court failed", zap.String("court_id", id), zap.Error(err))
	}
}

// Ping checks the Redis connection.
func (c *CourtCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *CourtCache) Close() error {
	return c.client.Close()
}
