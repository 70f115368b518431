package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"gorm.io/gorm"
)

// Store groups every repository over one connection (or one transaction).
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Listings      ListingRepository
	Interests     InterestRepository
	Messages      MessageRepository
	Reviews       ReviewRepository
	Transactions  TransactionRepository
	Notifications NotificationRepository
	Analytics     AnalyticsRepository
	ListingEvents ListingEventRepository
}

// NewStore binds all repositories to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &userRepo{crud[domain.User]{db: db, name: "user"}},
		Listings:      &listingRepo{crud[domain.WasteListing]{db: db, name: "listing"}},
		Interests:     &interestRepo{crud[domain.Interest]{db: db, name: "interest"}},
		Messages:      &messageRepo{crud[domain.Message]{db: db, name: "message"}},
		Reviews:       &reviewRepo{crud[domain.Review]{db: db, name: "review"}},
		Transactions:  &transactionRepo{crud[domain.Transaction]{db: db, name: "transaction"}},
		Notifications: &notificationRepo{crud[domain.Notification]{db: db, name: "notification"}},
		Analytics:     &analyticsRepo{crud[domain.Analytics]{db: db, name: "analytics"}},
		ListingEvents: &listingEventRepo{crud[domain.ListingEvent]{db: db, name: "listing event"}},
	}
}

// DB returns the underlying handle (health checks, migrations).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to one DB transaction. Any error
// returned by fn rolls the whole unit back. Inside fn only tx may be used.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
