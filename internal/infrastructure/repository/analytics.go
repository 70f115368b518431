package repository

import (
	"context"
	"time"

	"agriconnect-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepository interface {
	Repository[domain.Analytics]
	// FindByMetric returns buckets for metric, newest date first. An empty period matches all.
	FindByMetric(ctx context.Context, metric, period string) ([]domain.Analytics, error)
	// Latest returns the most recent bucket for metric, or nil, nil.
	Latest(ctx context.Context, metric string) (*domain.Analytics, error)
	// Increment atomically adds delta to the daily bucket of day, creating it on first use.
	Increment(ctx context.Context, metric string, delta float64, day time.Time) (*domain.Analytics, error)
}

type analyticsRepo struct {
	crud[domain.Analytics]
}

func (r *analyticsRepo) FindByMetric(ctx context.Context, metric, period string) ([]domain.Analytics, error) {
	q := r.db.WithContext(ctx).Where("metric = ?", metric)
	if period != "" {
		q = q.Where("period = ?", period)
	}
	return r.find(q.Order("date DESC"))
}

func (r *analyticsRepo) Latest(ctx context.Context, metric string) (*domain.Analytics, error) {
	return r.first(r.db.WithContext(ctx).Where("metric = ?", metric).Order("date DESC").Order(newestFirst))
}

func (r *analyticsRepo) Increment(ctx context.Context, metric string, delta float64, day time.Time) (*domain.Analytics, error) {
	day = domain.Day(day)
	// One statement, so a concurrent first insert never aborts an enclosing
	// Postgres transaction with a unique violation.
	row := &domain.Analytics{Metric: metric, Value: delta, Period: domain.PeriodDaily, Date: day}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "metric"}, {Name: "period"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr(`"Analytics"."value" + excluded."value"`),
		}),
	}).Create(row).Error
	if err != nil {
		return nil, r.wrap("increment", err)
	}
	return r.first(r.db.WithContext(ctx).Where("metric = ? AND period = ? AND date = ?", metric, domain.PeriodDaily, day))
}
