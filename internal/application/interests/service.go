package interests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/application/notifications"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"

	"github.com/google/uuid"
)

var (
	errNotFound = apperror.NotFound("Interest not found")
	errExists   = apperror.Conflict("Interest already exists")
)

type Service struct {
	Store         *repository.Store
	Analytics     *analytics.Service
	Notifications *notifications.Service
}

// List requires a listing or a buyer filter.
func (s *Service) List(ctx context.Context, listing, buyer string) ([]domain.Interest, error) {
	if listing == "" && buyer == "" {
		return nil, apperror.Invalid("Please provide a listing or buyer filter")
	}
	filters := repository.Filters{}
	if listing != "" {
		id, err := uuid.Parse(listing)
		if err != nil {
			return []domain.Interest{}, nil
		}
		filters["listing_id"] = id
	}
	if buyer != "" {
		id, err := uuid.Parse(buyer)
		if err != nil {
			return []domain.Interest{}, nil
		}
		filters["buyer_id"] = id
	}
	return s.Store.Interests.FindAll(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	in, err := s.Store.Interests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errNotFound
	}
	return in, nil
}

type CreateInput struct {
	ListingID string `json:"listingId"`
	BuyerID   string `json:"buyerId"`
	Message   string `json:"message"`
}

// Create records a buyer's interest, bumps the listing's counter and
// notifies the seller, all in one transaction. A second interest for the
// same pair is a conflict carrying the existing row.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Interest, error) {
	if in.ListingID == "" || in.BuyerID == "" {
		return nil, apperror.Invalid("Missing required fields: listingId and buyerId")
	}
	listingID, err := uuid.Parse(in.ListingID)
	if err != nil {
		return nil, apperror.NotFound("Listing not found")
	}
	buyerID, err := uuid.Parse(in.BuyerID)
	if err != nil {
		return nil, apperror.NotFound("Buyer not found")
	}

	listing, err := s.Store.Listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperror.NotFound("Listing not found")
	}
	buyer, err := s.Store.Users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, apperror.NotFound("Buyer not found")
	}
	if existing, err := s.Store.Interests.FindByListingAndBuyer(ctx, listingID, buyerID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errExists.With("interest", existing)
	}

	interest := &domain.Interest{
		ListingID: listingID,
		BuyerID:   buyerID,
		Status:    domain.InterestPending,
		Message:   strings.TrimSpace(in.Message),
	}
	var note *domain.Notification
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Interests.Create(ctx, interest); err != nil {
			return err
		}
		if err := tx.Listings.IncrementInterestCount(ctx, listingID); err != nil {
			return err
		}
		note = notifications.New(listing.SellerID, domain.NotificationNewInterest,
			"New Interest in Your Listing",
			fmt.Sprintf("Someone is interested in your listing: %s", listing.Title),
			&listing.ID)
		return tx.Notifications.Create(ctx, note)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent insert of the same pair.
			existing, ferr := s.Store.Interests.FindByListingAndBuyer(ctx, listingID, buyerID)
			if ferr == nil && existing != nil {
				return nil, errExists.With("interest", existing)
			}
			return nil, errExists
		}
		return nil, err
	}
	s.Analytics.Record(ctx, domain.MetricInterestsCreated, 1)
	s.Notifications.Deliver(note)
	return interest, nil
}

var statuses = map[string]bool{
	domain.InterestPending: true, domain.InterestAccepted: true,
	domain.InterestRejected: true, domain.InterestCompleted: true,
}

// Update applies message and status changes. A transition into accepted
// notifies the buyer exactly once, however many times it is requested.
func (s *Service) Update(ctx context.Context, id uuid.UUID, body map[string]interface{}) (*domain.Interest, error) {
	status, hasStatus := "", false
	if v, ok := body["status"]; ok {
		st, isStr := v.(string)
		if !isStr || !statuses[st] {
			return nil, apperror.Invalid("Invalid status: must be one of pending, accepted, rejected, completed")
		}
		status, hasStatus = st, true
	}
	other := map[string]interface{}{}
	if v, ok := body["message"]; ok {
		msg, isStr := v.(string)
		if !isStr {
			return nil, apperror.Invalid("Invalid message")
		}
		other["message"] = msg
	}
	if !hasStatus && len(other) == 0 {
		return nil, apperror.Invalid("No valid update fields provided")
	}

	var out *domain.Interest
	var note *domain.Notification
	err := s.Store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Interests.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return errNotFound
		}
		if len(other) > 0 {
			if _, err := tx.Interests.Update(ctx, id, other); err != nil {
				return err
			}
		}
		if hasStatus {
			changed, err := tx.Interests.TransitionStatus(ctx, id, status)
			if err != nil {
				return err
			}
			if changed && status == domain.InterestAccepted {
				title := "your listing"
				if l, err := tx.Listings.FindByID(ctx, current.ListingID); err != nil {
					return err
				} else if l != nil {
					title = l.Title
				}
				note = notifications.New(current.BuyerID, domain.NotificationInterestAccepted,
					"Interest Accepted",
					fmt.Sprintf("Your interest in \"%s\" has been accepted by the seller.", title),
					&current.ListingID)
				if err := tx.Notifications.Create(ctx, note); err != nil {
					return err
				}
			}
		}
		out, err = tx.Interests.FindByID(ctx, id)
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

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Store.Interests.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errNotFound
	}
	return nil
}
