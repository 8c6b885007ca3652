package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/services"
)

type ApiController struct {
	logger  providers.Logger
	service services.HistoryServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.HistoryServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type historyResponse struct {
	ID      string `json:"id"`
	Archive bool   `json:"archive"`
	Days    any    `json:"days"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownEntity):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, collector.ErrCorruptHistory):
		ac.logger.Warnf(providers.TypeHTTP, "%s", err)
		http.Error(w, "Unprocessable Entity", http.StatusUnprocessableEntity)
	default:
		ac.logger.Errorf(providers.TypeHTTP, "%s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetEntities lists the tracked entities with their latest day.
func (ac *ApiController) GetEntities(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, services.EntitiesCacheKey, func() (any, error) {
		return ac.service.Entities()
	})
}

// GetHistory serves /history?id=<entity>[&include=archive].
func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	archive := r.URL.Query().Get("include") == "archive"

	ac.serveFromCacheOrCompute(w, services.HistoryCacheKey(id, archive), func() (any, error) {
		history, err := ac.service.History(id, archive)
		if err != nil {
			return nil, err
		}
		return historyResponse{ID: id, Archive: archive, Days: history}, nil
	})
}
