package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InterestPending   = "pending"
	InterestAccepted  = "accepted"
	InterestRejected  = "rejected"
	InterestCompleted = "completed"
)

var InterestStatuses = []string{InterestPending, InterestAccepted, InterestRejected, InterestCompleted}

// Interest is a buyer's intent to acquire a listing. One row per (listing, buyer).
type Interest struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_interest_listing_buyer" json:"listingId"`
	BuyerID   uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_interest_listing_buyer;index" json:"buyerId"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Message   string    `gorm:"column:message" json:"message"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Interest) TableName() string {
	return "Interests"
}

func (i *Interest) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
