package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

type ListingEventRepository interface {
	Repository[domain.ListingEvent]
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error)
}

type listingEventRepo struct {
	crud[domain.ListingEvent]
}

func (r *listingEventRepo) FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	return r.FindAll(ctx, Filters{"listing_id": listingID})
}
