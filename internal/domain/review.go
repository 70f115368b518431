package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReviewerID uuid.UUID  `gorm:"column:reviewer_id;type:uuid;not null;index" json:"reviewerId"`
	RevieweeID uuid.UUID  `gorm:"column:reviewee_id;type:uuid;not null;index" json:"revieweeId"`
	ListingID  *uuid.UUID `gorm:"column:listing_id;type:uuid" json:"listingId,omitempty"`
	Rating     int        `gorm:"column:rating;not null" json:"rating"`
	Comment    *string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"column:createdAt" json:"createdAt"`
}

func (Review) TableName() string {
	return "Reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
