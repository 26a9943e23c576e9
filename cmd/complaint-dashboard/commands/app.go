package commands

import (
	"context"
	"fmt"

	"complaint-dashboard/internal/cache"
	"complaint-dashboard/internal/catalog"
	"complaint-dashboard/internal/metrics"
	"complaint-dashboard/internal/report"
	"complaint-dashboard/internal/store"

	"github.com/rs/zerolog/log"
)

// app bundles the components every command shares.
type app struct {
	store   *store.Store
	service *report.Service
	metrics *metrics.Metrics
	redis   *cache.Redis
}

func openApp(ctx context.Context) (*app, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.CatalogPath).Msg("Loaded catalog")
	}

	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	a := &app{store: st, metrics: metrics.New()}

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		a.redis, err = cache.NewRedis(ctx, cfg.RedisURL, "complaint-dashboard:")
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to connect report cache: %w", err)
		}
		c = a.redis
	}

	a.service = report.NewService(st, cat, report.Options{
		FormID:   cfg.FormID,
		Location: cfg.Location,
		Locale:   cfg.MonthLabelLocale,
		Cache:    c,
		CacheTTL: cfg.ReportCacheTTL,
		Metrics:  a.metrics,
	})
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close report cache")
		}
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close record store")
	}
}
