package controllers

import (
	"errors"
	"net/http"
	"reactbot/internal/models"
	"reactbot/internal/providers"
	"reactbot/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

type StatsController struct {
	logger   providers.Logger
	activity services.ActivityServiceInterface
	cache    providers.CacheProviderInterface
}

type countResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type dayResponse struct {
	Date        string `json:"date"`
	ActiveUsers int    `json:"active_users"`
	Actions     int    `json:"actions"`
	ServerCount int    `json:"server_count"`
}

var errBadDate = errors.New("bad date")

func NewStatsController(logger providers.Logger, activity services.ActivityServiceInterface, cache providers.CacheProviderInterface) *StatsController {
	return &StatsController{
		logger:   logger,
		activity: activity,
		cache:    cache,
	}
}

// getDate returns the date query parameter, today when absent.
func (sc *StatsController) getDate(r *http.Request) (string, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return sc.activity.Today(), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", errBadDate
	}
	return date, nil
}

func (sc *StatsController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, prefix string, compute func(date string) (any, error)) {
	date, err := sc.getDate(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cacheKey := "stats:" + prefix + ":" + date
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute(date)
	if err != nil {
		sc.logger.Errorf(providers.TypeHTTP, "%s stats for %s: %s", prefix, date, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *StatsController) GetDAU(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, r, "dau", func(date string) (any, error) {
		n, err := sc.activity.DAU(date)
		return countResponse{Date: date, Count: n}, err
	})
}

func (sc *StatsController) GetMAU(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, r, "mau", func(date string) (any, error) {
		n, err := sc.activity.MAU(date)
		return countResponse{Date: date, Count: n}, err
	})
}

func (sc *StatsController) GetDay(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, r, "day", func(date string) (any, error) {
		log, err := sc.activity.Day(date)
		if err != nil {
			return nil, err
		}
		return dayResponse{
			Date:        date,
			ActiveUsers: log.DAU(),
			Actions:     log.TotalActions,
			ServerCount: log.ServerCount,
		}, nil
	})
}
