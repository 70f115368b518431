package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
	PeriodAllTime = "all_time"
)

// Metric names incremented by the application.
const (
	MetricUsersRegistered       = "users_registered"
	MetricListingsCreated       = "listings_created"
	MetricInterestsCreated      = "interests_created"
	MetricTransactionsCompleted = "transactions_completed"
	MetricWasteDiverted         = "waste_diverted"
)

// Analytics is one bucket of a platform metric. (Metric, Period, Date) is unique.
type Analytics struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Metric    string    `gorm:"column:metric;not null;uniqueIndex:idx_analytics_bucket" json:"metric"`
	Value     float64   `gorm:"column:value;not null;default:0" json:"value"`
	Period    string    `gorm:"column:period;type:varchar(20);not null;uniqueIndex:idx_analytics_bucket" json:"period"`
	Date      time.Time `gorm:"column:date;not null;uniqueIndex:idx_analytics_bucket" json:"date"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Analytics) TableName() string {
	return "Analytics"
}

func (a *Analytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Day truncates t to the start of its UTC day, the key of a daily bucket.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
