package services

import (
	"context"
	"fmt"
	"time"

	"painlog/internal/database"
	"painlog/internal/logger"
)

// TrendCacheService caches computed trends per (user, window) in the general
// cache database. Keys carry a per-user generation that every pain-entry write
// bumps, so a result computed before the write lands under a key no reader
// asks for again.
type TrendCacheService struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

// TrendGeneration is the value of a user's generation counter at read time.
// A negative generation means the counter could not be read and the result
// must not be cached.
type TrendGeneration int64

func NewTrendCacheService(cache database.CacheClient, ttl time.Duration) *TrendCacheService {
	return &TrendCacheService{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("TrendCacheService"),
	}
}

func TrendKey(userID string, generation TrendGeneration, days int) string {
	return fmt.Sprintf("trends:%s:%d:%d", userID, generation, days)
}

func trendIndexKey(userID string) string {
	return fmt.Sprintf("trends:%s:keys", userID)
}

func trendGenerationKey(userID string) string {
	return fmt.Sprintf("trends:%s:gen", userID)
}

func (s *TrendCacheService) generation(ctx context.Context, userID string) (TrendGeneration, error) {
	var generation TrendGeneration
	if _, err := database.NewCacheBuilder(s.cache, trendGenerationKey(userID)).
		WithContext(ctx).
		Get(&generation); err != nil {
		return -1, err
	}
	return generation, nil
}

// Get looks up the cached trends for the user's current generation. The
// returned generation must be handed back to Set with the freshly computed
// result.
func (s *TrendCacheService) Get(ctx context.Context, userID string, days int, dest any) (TrendGeneration, bool) {
	log := s.log.Function("Get")

	generation, err := s.generation(ctx, userID)
	if err != nil {
		log.Warn("failed to read trend generation", "userID", userID, "error", err)
		return -1, false
	}

	found, err := database.NewCacheBuilder(s.cache, TrendKey(userID, generation, days)).
		WithContext(ctx).
		Get(dest)
	if err != nil {
		log.Warn("failed to read trends from cache", "userID", userID, "days", days, "error", err)
		return generation, false
	}
	return generation, found
}

// Set stores trends computed after a Get that returned generation.
func (s *TrendCacheService) Set(ctx context.Context, userID string, generation TrendGeneration, days int, trends any) {
	log := s.log.Function("Set")

	if generation < 0 {
		return
	}

	key := TrendKey(userID, generation, days)
	if err := database.NewCacheBuilder(s.cache, key).
		WithStruct(trends).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to write trends to cache", "userID", userID, "days", days, "error", err)
		return
	}

	if err := database.NewCacheBuilder(s.cache, trendIndexKey(userID)).
		WithTTL(s.ttl).
		WithContext(ctx).
		AddMember(key); err != nil {
		log.Warn("failed to index cached trends", "userID", userID, "key", key, "error", err)
	}
}

// Invalidate retires every cached trend window for the user. Bumping the
// generation is what makes stale writes unreachable; dropping the indexed
// keys only frees memory early.
func (s *TrendCacheService) Invalidate(ctx context.Context, userID string) {
	log := s.log.Function("Invalidate")

	generation, err := database.NewCacheBuilder(s.cache, trendGenerationKey(userID)).
		WithContext(ctx).
		Increment()
	if err != nil {
		log.Warn("failed to bump trend generation", "userID", userID, "error", err)
	}

	removed, err := database.NewCacheBuilder(s.cache, trendIndexKey(userID)).
		WithContext(ctx).
		DeleteMembers()
	if err != nil {
		log.Warn("failed to drop cached trends", "userID", userID, "error", err)
		return
	}
	if removed > 0 {
		log.Debug("Invalidated cached trends", "userID", userID, "generation", generation, "count", removed)
	}
}
