package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"complaint-dashboard/internal/cache"
	"complaint-dashboard/internal/catalog"
	"complaint-dashboard/internal/intake"
	"complaint-dashboard/internal/metrics"
	"complaint-dashboard/internal/normalize"
	"complaint-dashboard/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MonthLayout is the format of a selected month.
const MonthLayout = "2006-01"

var (
	// ErrInvalidMonth means the selected month is not of the form YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrDataAccess wraps any failure of the record repository.
	ErrDataAccess = errors.New("data access failed")
)

// Repository is the read side of the record store the reports are built from.
type Repository interface {
	FetchRecords(ctx context.Context, formID int, start, end time.Time) ([]intake.RawRecord, error)
	CreatedMonths(ctx context.Context, formID int, loc *time.Location) ([]intake.YearMonth, error)
	EnteredMonths(ctx context.Context, loc *time.Location) ([]intake.YearMonth, error)
}

// Options tune a Service. Zero values fall back to sensible defaults.
type Options struct {
	FormID   int
	Location *time.Location
	Locale   string
	Cache    cache.Cache
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Service builds the monthly complaint summaries.
type Service struct {
	repo       Repository
	projector  *stats.Projector
	aggregator *stats.Aggregator
	opts       Options
}

// DefaultFormID is the intake form the dashboard reports on.
const DefaultFormID = 3

func NewService(repo Repository, cat catalog.Catalog, opts Options) *Service {
	if opts.FormID == 0 {
		opts.FormID = DefaultFormID
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Locale == "" {
		opts.Locale = stats.LocaleEnglish
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:       repo,
		projector:  stats.NewProjector(cat, normalize.New(cat), opts.Location),
		aggregator: stats.NewAggregator(cat),
		opts:       opts,
	}
}

// DefaultMonth is the current month in the configured time zone.
func (s *Service) DefaultMonth() string {
	return s.opts.Now().In(s.opts.Location).Format(MonthLayout)
}

// ParseMonth validates a YYYY-MM string.
func ParseMonth(month string) (intake.YearMonth, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return intake.YearMonth{}, fmt.Errorf("%w %q: expected YYYY-MM", ErrInvalidMonth, month)
	}
	return intake.YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Summary builds the report for month, or for the current month when month is empty.
func (s *Service) Summary(ctx context.Context, month string) (stats.SummaryReport, error) {
	start := time.Now()
	if month == "" {
		month = s.DefaultMonth()
	}
	log.Info().Str("month", month).Msg("Selected month")

	ym, err := ParseMonth(month)
	if err != nil {
		s.opts.Metrics.ObserveReport("invalid_month", 0, time.Since(start))
		return stats.SummaryReport{}, err
	}
	window := stats.NewMonthWindow(ym, s.opts.Location)

	// 1. Fetch the month's records and the month listing concurrently
	var (
		records []intake.RawRecord
		months  []intake.YearMonth
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.repo.FetchRecords(gctx, s.opts.FormID, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		months, err = s.repo.CreatedMonths(gctx, s.opts.FormID, s.opts.Location)
		return err
	})
	if err := g.Wait(); err != nil {
		s.opts.Metrics.ObserveReport("data_error", 0, time.Since(start))
		return stats.SummaryReport{}, fmt.Errorf("%w: %w", ErrDataAccess, err)
	}

	// 2. Normalize and reduce
	normalized := s.projector.ProjectAll(records)
	report := s.aggregator.Summarize(normalized)
	report.SelectedMonth = month
	report.AvailableMonths = stats.AvailableMonths(months, s.opts.Locale)

	s.opts.Metrics.ObserveReport("ok", len(records), time.Since(start))
	log.Debug().
		Str("month", month).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("Summary report built")
	return report, nil
}

// SummaryJSON returns the encoded report, served from the cache when possible.
// Cache failures are logged and never fail the request.
func (s *Service) SummaryJSON(ctx context.Context, month string) ([]byte, error) {
	if month == "" {
		month = s.DefaultMonth()
	}
	key := fmt.Sprintf("summary:%d:%s:%s", s.opts.FormID, s.opts.Locale, month)

	if s.opts.Cache != nil {
		data, found, err := s.opts.Cache.Get(ctx, key)
		switch {
		case err != nil:
			s.opts.Metrics.ObserveCacheError()
			log.Warn().Err(err).Str("key", key).Msg("Report cache read failed, rebuilding")
		case found:
			s.opts.Metrics.ObserveCache(true)
			return data, nil
		default:
			s.opts.Metrics.ObserveCache(false)
		}
	}

	report, err := s.Summary(ctx, month)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	if s.opts.Cache != nil && s.opts.CacheTTL > 0 {
		if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
			s.opts.Metrics.ObserveCacheError()
			log.Warn().Err(err).Str("key", key).Msg("Report cache write failed")
		}
	}
	return data, nil
}

// AvailableDates lists every month with entered complaints across all forms as YYYY-MM,
// years descending and months ascending.
func (s *Service) AvailableDates(ctx context.Context) ([]string, error) {
	months, err := s.repo.EnteredMonths(ctx, s.opts.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataAccess, err)
	}
	return stats.AvailableDates(months), nil
}
