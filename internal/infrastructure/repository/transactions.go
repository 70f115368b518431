package repository

import (
	"context"
	"time"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

type TransactionRepository interface {
	Repository[domain.Transaction]
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Transaction, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.Transaction, error)
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Transaction, error)
	// Complete moves a pending transaction to completed and reports whether it did.
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// Cancel moves a pending transaction to cancelled and reports whether it did.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type transactionRepo struct {
	crud[domain.Transaction]
}

func (r *transactionRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Transaction, error) {
	return r.FindAll(ctx, Filters{"seller_id": sellerID})
}

func (r *transactionRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.Transaction, error) {
	return r.FindAll(ctx, Filters{"buyer_id": buyerID})
}

func (r *transactionRepo) FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Transaction, error) {
	return r.FindAll(ctx, Filters{"listing_id": listingID})
}

func (r *transactionRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return r.transition(ctx, id, map[string]interface{}{
		"status":      domain.TransactionCompleted,
		"completedAt": at,
	})
}

func (r *transactionRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, map[string]interface{}{"status": domain.TransactionCancelled})
}

func (r *transactionRepo) transition(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ? AND status = ?", id, domain.TransactionPending).
		Updates(fields)
	if res.Error != nil {
		return false, r.wrap("transition", res.Error)
	}
	return res.RowsAffected > 0, nil
}
