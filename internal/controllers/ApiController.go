package controllers

import (
	"errors"
	"ghstats/internal/datasource"
	"ghstats/internal/models"
	"ghstats/internal/providers"
	"ghstats/internal/render"
	"ghstats/internal/services"
	"ghstats/internal/statistic"
	"net/http"

	json "github.com/goccy/go-json"
)

const (
	contentTypeJSON = "application/json"
	contentTypeSVG  = "image/svg+xml"
)

type ApiController struct {
	logger  providers.Logger
	service services.StatsServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.StatsServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, format, contentType string, encode func(*models.StatsSnapshot) ([]byte, error)) {
	key := statistic.NormalizeKey(r.PathValue("username"))
	if key == "" {
		ac.writeError(w, r, services.ErrInvalidUsername)
		return
	}
	cacheKey := format + ":" + key

	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	snap, err := ac.service.GetStats(r.Context(), r.PathValue("username"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	data, err := encode(snap)
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Failed to encode %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, data)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidUsername):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, datasource.ErrUserNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, services.ErrStatsUnavailable):
		ac.logger.Warnf(providers.TypeHttp, "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	default:
		ac.logger.Errorf(providers.TypeHttp, "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "json", contentTypeJSON, func(snap *models.StatsSnapshot) ([]byte, error) {
		return json.Marshal(snap)
	})
}

func (ac *ApiController) GetStatsSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "max-age=3600")
	ac.serveFromCacheOrCompute(w, r, "svg", contentTypeSVG, render.SVG)
}
