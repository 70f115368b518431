package listingevents

import (
	"context"
	"encoding/json"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Service struct {
	Store *repository.Store
}

// Record appends an event through repo, which may be bound to a transaction.
func Record(ctx context.Context, repo repository.ListingEventRepository, listingID uuid.UUID, eventType string, data map[string]interface{}, actor *uuid.UUID) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return repo.Create(ctx, &domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(raw),
		ActorID:   actor,
	})
}

// ForListing returns the listing's audit trail, newest first. Events outlive
// the listing, so a deleted listing still has a readable trail.
func (s *Service) ForListing(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	if listingID == uuid.Nil {
		return nil, apperror.NotFound("Listing not found")
	}
	return s.Store.ListingEvents.FindByListing(ctx, listingID)
}
