package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
)

// Transaction records a waste exchange between a seller and a buyer.
type Transaction struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID   uuid.UUID  `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	SellerID    uuid.UUID  `gorm:"column:seller_id;type:uuid;not null;index" json:"sellerId"`
	BuyerID     uuid.UUID  `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyerId"`
	InterestID  uuid.UUID  `gorm:"column:interest_id;type:uuid;not null" json:"interestId"`
	Amount      float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status      string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CompletedAt *time.Time `gorm:"column:completedAt" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
