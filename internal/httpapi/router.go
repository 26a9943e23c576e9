package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"complaint-dashboard/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Reports is what the API needs from the report service.
type Reports interface {
	SummaryJSON(ctx context.Context, month string) ([]byte, error)
	AvailableDates(ctx context.Context) ([]string, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configure the router.
type Options struct {
	// RateLimit is the sustained number of API requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
	Metrics   *metrics.Metrics
}

// NewRouter wires the dashboard routes.
func NewRouter(reports Reports, store Pinger, opts Options) http.Handler {
	h := &handler{reports: reports, store: store}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(opts.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api/komplain", func(r chi.Router) {
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst <= 0 {
				burst = int(opts.RateLimit)
			}
			r.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst), opts.Metrics))
		}
		r.Get("/", h.summary)
		r.Get("/available-dates", h.availableDates)
	})

	return r
}

type handler struct {
	reports Reports
	store   Pinger
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	data, err := h.reports.SummaryJSON(r.Context(), month)
	if err != nil {
		log.Error().Err(err).Str("month", month).Str("request_id", RequestIDFrom(r.Context())).Msg("Error processing request")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) availableDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.reports.AvailableDates(r.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("Failed to retrieve available dates")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve available dates"})
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
