package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ListingEventCreated = "CREATED"
	ListingEventUpdated = "UPDATED"
	ListingEventSold    = "SOLD"
	ListingEventDeleted = "DELETED"
)

// ListingEvent is an append-only audit entry for a listing.
type ListingEvent struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"eventType"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"eventData"`
	ActorID   *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actorId,omitempty"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
