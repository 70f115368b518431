package transactions

import (
	"context"
	"fmt"
	"time"

	"agriconnect-backend/internal/application/listingevents"
	"agriconnect-backend/internal/application/notifications"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

var (
	errNotFound  = apperror.NotFound("Transaction not found")
	errCancelled = apperror.Conflict("Transaction has been cancelled")
)

type Service struct {
	Store         *repository.Store
	Notifications *notifications.Service
	Now           func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Query filters by seller, buyer and/or listing. Empty returns everything.
type Query struct {
	Seller  string
	Buyer   string
	Listing string
}

func (s *Service) List(ctx context.Context, q Query) ([]domain.Transaction, error) {
	filters := repository.Filters{}
	for col, raw := range map[string]string{"seller_id": q.Seller, "buyer_id": q.Buyer, "listing_id": q.Listing} {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return []domain.Transaction{}, nil
		}
		filters[col] = id
	}
	return s.Store.Transactions.FindAll(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.Store.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errNotFound
	}
	return t, nil
}

// CreateInput opens a transaction for an accepted interest. Amount defaults
// to the listing price.
type CreateInput struct {
	InterestID string      `json:"interestId"`
	Amount     interface{} `json:"amount"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Transaction, error) {
	if in.InterestID == "" {
		return nil, apperror.Invalid("Missing required field: interestId")
	}
	interestID, err := uuid.Parse(in.InterestID)
	if err != nil {
		return nil, apperror.NotFound("Interest not found")
	}

	var out *domain.Transaction
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		interest, err := tx.Interests.FindByID(ctx, interestID)
		if err != nil {
			return err
		}
		if interest == nil {
			return apperror.NotFound("Interest not found")
		}
		if interest.Status != domain.InterestAccepted {
			return apperror.Conflict("Interest must be accepted before recording a transaction")
		}
		listing, err := tx.Listings.FindByID(ctx, interest.ListingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return apperror.NotFound("Listing not found")
		}
		if listing.Status == domain.ListingSold {
			return apperror.Conflict("Listing is no longer available")
		}
		existing, err := tx.Transactions.FindAll(ctx, repository.Filters{"interest_id": interestID})
		if err != nil {
			return err
		}
		for _, t := range existing {
			if t.Status != domain.TransactionCancelled {
				return apperror.Conflict("Transaction already exists for this interest").With("transaction", t)
			}
		}

		amount := listing.Price
		if in.Amount != nil {
			n, ok := validation.Number(in.Amount)
			if !ok || n < 0 {
				return apperror.Invalid("Invalid amount: must be a non-negative number")
			}
			amount = n
		}
		out = &domain.Transaction{
			ListingID:  listing.ID,
			SellerID:   listing.SellerID,
			BuyerID:    interest.BuyerID,
			InterestID: interest.ID,
			Amount:     amount,
			Status:     domain.TransactionPending,
		}
		return tx.Transactions.Create(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete finishes a pending transaction: the listing is marked sold, the
// interest completed, a SOLD event recorded and the metrics bumped, all in one
// DB transaction. Completing twice is a no-op returning the row.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*domain.Transaction, error) {
	var out *domain.Transaction
	var note *domain.Notification
	err := s.Store.Transaction(ctx, func(tx *repository.Store) error {
		t, err := tx.Transactions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return errNotFound
		}
		switch t.Status {
		case domain.TransactionCompleted:
			out = t
			return nil
		case domain.TransactionCancelled:
			return errCancelled
		}

		now := s.now()
		changed, err := tx.Transactions.Complete(ctx, id, now)
		if err != nil {
			return err
		}
		if !changed {
			out, err = tx.Transactions.FindByID(ctx, id)
			if err == nil && out != nil && out.Status == domain.TransactionCancelled {
				return errCancelled
			}
			return err
		}

		listing, err := tx.Listings.FindByID(ctx, t.ListingID)
		if err != nil {
			return err
		}
		sold, err := tx.Listings.MarkSold(ctx, t.ListingID)
		if err != nil {
			return err
		}
		if sold {
			if err := listingevents.Record(ctx, tx.ListingEvents, t.ListingID, domain.ListingEventSold, map[string]interface{}{
				"transactionId": t.ID,
				"buyerId":       t.BuyerID,
				"amount":        t.Amount,
			}, actor); err != nil {
				return err
			}
		}
		if _, err := tx.Interests.TransitionStatus(ctx, t.InterestID, domain.InterestCompleted); err != nil {
			return err
		}
		if _, err := tx.Analytics.Increment(ctx, domain.MetricTransactionsCompleted, 1, now); err != nil {
			return err
		}
		if listing != nil && listing.Quantity > 0 {
			if _, err := tx.Analytics.Increment(ctx, domain.MetricWasteDiverted, listing.Quantity, now); err != nil {
				return err
			}
		}

		title := "your purchase"
		if listing != nil {
			title = listing.Title
		}
		note = notifications.New(t.BuyerID, domain.NotificationSystem, "Transaction Completed",
			fmt.Sprintf("Your purchase of \"%s\" is complete.", title), &t.ID)
		if err := tx.Notifications.Create(ctx, note); err != nil {
			return err
		}
		out, err = tx.Transactions.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if note != nil {
		s.Notifications.Deliver(note)
	}
	return out, nil
}

// Cancel moves a pending transaction to cancelled. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case domain.TransactionCancelled:
		return t, nil
	case domain.TransactionCompleted:
		return nil, apperror.Conflict("Completed transactions cannot be cancelled")
	}
	if _, err := s.Store.Transactions.Cancel(ctx, id); err != nil {
		return nil, err
	}
	t, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.TransactionCompleted {
		return nil, apperror.Conflict("Completed transactions cannot be cancelled")
	}
	return t, nil
}
