package services

import (
	"errors"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

var ErrUnknownEntity = errors.New("unknown entity")

// EntitiesCacheKey caches the /entities listing.
const EntitiesCacheKey = "entities"

// HistoryCacheKey caches one /history response.
func HistoryCacheKey(entityID string, includeArchive bool) string {
	if includeArchive {
		return "history:" + entityID + ":archive"
	}
	return "history:" + entityID
}

// cacheKeysFor lists every cached response that reads entityID's history.
func cacheKeysFor(entityID string) []string {
	return []string{HistoryCacheKey(entityID, false), HistoryCacheKey(entityID, true), EntitiesCacheKey}
}

type HistoryServiceInterface interface {
	Entities() ([]EntitySummary, error)
	History(entityID string, includeArchive bool) (models.EntityHistory, error)
}

// EntitySummary is a configured entity with its most recent day.
type EntitySummary struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"displayName,omitempty"`
	ProfileURL  string              `json:"profileUrl"`
	Days        int                 `json:"days"`
	LatestDate  string              `json:"latestDate,omitempty"`
	Latest      *models.DailyRecord `json:"latest,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// HistoryService answers read-only queries over stored histories.
type HistoryService struct {
	entities []structures.EntityConfig
	store    HistoryStoreInterface
}

func NewHistoryService(conf *structures.Config, store HistoryStoreInterface) HistoryServiceInterface {
	return &HistoryService{entities: conf.Entities, store: store}
}

// Entities lists entities in configuration order. An unreadable history
// does not fail the listing; the entity carries the error instead.
func (hs *HistoryService) Entities() ([]EntitySummary, error) {
	out := make([]EntitySummary, 0, len(hs.entities))
	for _, e := range hs.entities {
		summary := EntitySummary{ID: e.ID, DisplayName: e.DisplayName, ProfileURL: e.ProfileURL}
		history, err := hs.store.Load(e.ID)
		if err != nil {
			summary.Error = err.Error()
			out = append(out, summary)
			continue
		}
		summary.Days = len(history)
		if dates := history.Dates(); len(dates) > 0 {
			summary.LatestDate = dates[len(dates)-1]
			summary.Latest = history[summary.LatestDate]
		}
		out = append(out, summary)
	}
	return out, nil
}

func (hs *HistoryService) History(entityID string, includeArchive bool) (models.EntityHistory, error) {
	if !hs.known(entityID) {
		return nil, ErrUnknownEntity
	}
	if includeArchive {
		return hs.store.LoadAll(entityID)
	}
	return hs.store.Load(entityID)
}

func (hs *HistoryService) known(entityID string) bool {
	for _, e := range hs.entities {
		if e.ID == entityID {
			return true
		}
	}
	return false
}
