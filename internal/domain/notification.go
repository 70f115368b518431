package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationNewInterest      = "new_interest"
	NotificationInterestAccepted = "interest_accepted"
	NotificationMessage          = "message"
	NotificationListingUpdate    = "listing_update"
	NotificationSystem           = "system"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Type      string     `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	Message   string     `gorm:"column:message;not null" json:"message"`
	RelatedID *uuid.UUID `gorm:"column:related_id;type:uuid" json:"relatedId,omitempty"`
	IsRead    bool       `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt time.Time  `gorm:"column:createdAt" json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
