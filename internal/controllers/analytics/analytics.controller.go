package analyticsController

import (
	"context"
	"time"

	"painlog/internal/access"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/repositories"
	"painlog/internal/services"
	"painlog/internal/trends"
)

type AnalyticsController struct {
	painEntryRepo repositories.PainEntryRepository
	accessModel   *access.Model
	trendCache    *services.TrendCacheService
	log           logger.Logger
	now           func() time.Time
}

func New(
	painEntryRepo repositories.PainEntryRepository,
	accessModel *access.Model,
	trendCache *services.TrendCacheService,
) *AnalyticsController {
	return &AnalyticsController{
		painEntryRepo: painEntryRepo,
		accessModel:   accessModel,
		trendCache:    trendCache,
		log:           logger.New("AnalyticsController"),
		now:           time.Now,
	}
}

func (ac *AnalyticsController) PainTrends(
	ctx context.Context,
	caller, userID UserID,
	days int,
) (trends.Trends, error) {
	log := ac.log.Function("PainTrends")

	if err := ValidateWindowDays(days); err != nil {
		return trends.Trends{}, err
	}

	if err := ac.accessModel.Require(ctx, caller, userID, AccessRead); err != nil {
		return trends.Trends{}, log.Err("caller may not read pain trends", err, "caller", caller, "userID", userID)
	}

	var cached trends.Trends
	generation, found := ac.trendCache.Get(ctx, userID.String(), days, &cached)
	if found {
		log.Debug("Found pain trends in cache", "userID", userID, "days", days)
		return cached, nil
	}

	entries, err := ac.painEntryRepo.ListForTrends(ctx, userID, WindowStart(ac.now(), days))
	if err != nil {
		return trends.Trends{}, log.Err("failed to load pain entries for trends", err, "userID", userID, "days", days)
	}

	result := trends.Compute(entries, days)
	ac.trendCache.Set(ctx, userID.String(), generation, days, result)

	return result, nil
}
