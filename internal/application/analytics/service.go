package analytics

import (
	"context"
	"strings"
	"time"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/rs/zerolog/log"
)

type Service struct {
	Store *repository.Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Record adds delta to today's bucket. Failures are logged, never returned:
// counters must not fail the request that produced them.
func (s *Service) Record(ctx context.Context, metric string, delta float64) {
	if s == nil || s.Store == nil {
		return
	}
	if _, err := s.Store.Analytics.Increment(ctx, metric, delta, s.now()); err != nil {
		log.Warn().Err(err).Str("metric", metric).Msg("analytics increment failed")
	}
}

// IncrementInput is the body of the admin increment endpoint.
type IncrementInput struct {
	Metric string  `json:"metric"`
	Delta  float64 `json:"delta"`
}

func (s *Service) Increment(ctx context.Context, in IncrementInput) (*domain.Analytics, error) {
	metric := strings.TrimSpace(in.Metric)
	if metric == "" {
		return nil, apperror.Invalid("Missing required field: metric")
	}
	delta := in.Delta
	if delta == 0 {
		delta = 1
	}
	return s.Store.Analytics.Increment(ctx, metric, delta, s.now())
}

var periods = map[string]bool{
	domain.PeriodDaily: true, domain.PeriodWeekly: true, domain.PeriodMonthly: true,
	domain.PeriodYearly: true, domain.PeriodAllTime: true,
}

func (s *Service) Query(ctx context.Context, metric, period string) ([]domain.Analytics, error) {
	if metric == "" {
		return nil, apperror.Invalid("Please provide a metric")
	}
	if period != "" && !periods[period] {
		return nil, apperror.Invalid("Invalid period")
	}
	return s.Store.Analytics.FindByMetric(ctx, metric, period)
}

func (s *Service) Latest(ctx context.Context, metric string) (*domain.Analytics, error) {
	a, err := s.Store.Analytics.Latest(ctx, metric)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("No data for metric")
	}
	return a, nil
}
