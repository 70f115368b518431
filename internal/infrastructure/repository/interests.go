package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

type InterestRepository interface {
	Repository[domain.Interest]
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Interest, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.Interest, error)
	FindByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*domain.Interest, error)
	// TransitionStatus sets status to `to` only if it differs, and reports
	// whether this call changed the row. Concurrent callers see exactly one true.
	TransitionStatus(ctx context.Context, id uuid.UUID, to string) (bool, error)
}

type interestRepo struct {
	crud[domain.Interest]
}

func (r *interestRepo) FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Interest, error) {
	return r.FindAll(ctx, Filters{"listing_id": listingID})
}

func (r *interestRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.Interest, error) {
	return r.FindAll(ctx, Filters{"buyer_id": buyerID})
}

func (r *interestRepo) FindByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*domain.Interest, error) {
	return r.first(r.db.WithContext(ctx).Where("listing_id = ? AND buyer_id = ?", listingID, buyerID))
}

func (r *interestRepo) TransitionStatus(ctx context.Context, id uuid.UUID, to string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Interest{}).
		Where("id = ? AND status <> ?", id, to).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return false, r.wrap("transition", res.Error)
	}
	return res.RowsAffected > 0, nil
}
