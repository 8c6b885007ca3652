package services

import (
	"context"
	"time"

	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/fetcher"
	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

// HistoryStoreInterface is the persisted per-entity time series.
type HistoryStoreInterface interface {
	Merge(entityID string, result *models.ExtractionResult, now time.Time) (*models.DailyRecord, error)
	Load(entityID string) (models.EntityHistory, error)
	LoadAll(entityID string) (models.EntityHistory, error)
}

type CollectorServiceInterface interface {
	Collect(ctx context.Context, entity structures.EntityConfig) models.EntityReport
}

// CollectorService runs fetch, extract and merge for a single entity. It never
// returns an error: every failure becomes the report's outcome.
type CollectorService struct {
	fetcher   fetcher.Fetcher
	extractor *extraction.Extractor
	store     HistoryStoreInterface
	clock     providers.ClockProviderInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	cache     providers.CacheProviderInterface
}

func NewCollectorService(
	f fetcher.Fetcher,
	extractor *extraction.Extractor,
	store HistoryStoreInterface,
	clock providers.ClockProviderInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	cache providers.CacheProviderInterface,
) CollectorServiceInterface {
	return &CollectorService{
		fetcher:   f,
		extractor: extractor,
		store:     store,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		cache:     cache,
	}
}

func (cs *CollectorService) Collect(ctx context.Context, entity structures.EntityConfig) (report models.EntityReport) {
	report.EntityID = entity.ID
	defer func() {
		cs.metrics.IncCollections(entity.ID, string(report.Outcome))
	}()

	page, err := cs.fetcher.Fetch(ctx, entity.ProfileURL)
	if err != nil {
		cs.logger.Warnf(providers.TypeFetch, "%s: %s", entity.ID, err)
		report.Outcome = models.OutcomeFetchFailed
		report.Err = err
		return report
	}

	now := cs.clock.Now()
	result := cs.extractor.Extract(page, now)
	report.Result = result
	cs.observe(entity.ID, result)

	if result.IsEmpty() {
		cs.logger.Warnf(providers.TypeExtract, "%s: no metric found on %s, history left untouched", entity.ID, entity.ProfileURL)
		report.Outcome = models.OutcomeEmpty
		return report
	}

	start := time.Now()
	_, err = cs.store.Merge(entity.ID, result, now)
	cs.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		cs.logger.Errorf(providers.TypeStore, "%s: %s", entity.ID, err)
		report.Outcome = models.OutcomeFailed
		report.Err = err
		return report
	}
	if n := cs.cache.Delete(cacheKeysFor(entity.ID)...); n > 0 {
		cs.logger.Debugf(providers.TypeStore, "%s: dropped %d cached responses", entity.ID, n)
	}

	cs.logger.Infof(providers.TypeStore, "%s: hirings=%d reviews=%d rating=%s",
		entity.ID, result.Hirings, result.Reviews, result.RatingText())
	report.Outcome = models.OutcomeStored
	return report
}

func (cs *CollectorService) observe(entityID string, result *models.ExtractionResult) {
	for metric, strategy := range result.Strategies {
		cs.metrics.IncStrategyWins(string(metric), strategy)
		cs.logger.Debugf(providers.TypeExtract, "%s: %s via %s", entityID, metric, strategy)
	}
	if result.Strategy(models.MetricReviews) == extraction.KindSalvage {
		cs.logger.Warnf(providers.TypeExtract, "%s: reviews=%d taken from the largest bracketed number, low confidence",
			entityID, result.Reviews)
	}
	if result.Strategy(models.MetricHirings) != "" {
		cs.metrics.SetMetricValue(entityID, string(models.MetricHirings), float64(result.Hirings))
	}
	if result.Strategy(models.MetricReviews) != "" {
		cs.metrics.SetMetricValue(entityID, string(models.MetricReviews), float64(result.Reviews))
	}
	if result.Rating != nil {
		cs.metrics.SetMetricValue(entityID, string(models.MetricRating), *result.Rating)
	}
}
