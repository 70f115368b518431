package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index" json:"senderId"`
	ReceiverID uuid.UUID  `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiverId"`
	ListingID  *uuid.UUID `gorm:"column:listing_id;type:uuid" json:"listingId,omitempty"`
	Content    string     `gorm:"column:content;not null" json:"content"`
	IsRead     bool       `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt  time.Time  `gorm:"column:createdAt" json:"createdAt"`
}

func (Message) TableName() string {
	return "Messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
