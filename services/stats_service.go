package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/logger"
	"github.com/redis/go-redis/v9"

	"csifest/storage"
)

const (
	statsCacheKey = "stats:registrations"
	statsCacheTTL = 30 * time.Second
)

// StatsService serves the public registration counter. When a redis client
// is configured the count is cached for a short TTL so the landing page
// cannot hammer the database; without redis it falls through to the store.
type StatsService struct {
	store storage.Store
	rdb   *redis.Client
}

func NewStatsService(store storage.Store, rdb *redis.Client) *StatsService {
	return &StatsService{store: store, rdb: rdb}
}

func (s *StatsService) RegistrationCount(ctx context.Context) (int64, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			if n, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				return n, nil
			}
		}
	}

	count, err := s.store.CountRegistrations(ctx)
	if err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, statsCacheKey, strconv.FormatInt(count, 10), statsCacheTTL).Err(); err != nil {
			// Cache write failure is not worth failing the request over.
			logger.Warningf("stats: cache write failed: %v", err)
		}
	}

	return count, nil
}
