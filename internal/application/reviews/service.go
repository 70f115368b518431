package reviews

import (
	"context"
	"strings"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

type Service struct {
	Store *repository.Store
}

// Query filters reviews; exactly one field is expected.
type Query struct {
	Reviewee string
	Reviewer string
	Listing  string
}

func (s *Service) List(ctx context.Context, q Query) ([]domain.Review, error) {
	var (
		raw  string
		find func(context.Context, uuid.UUID) ([]domain.Review, error)
	)
	switch {
	case q.Reviewee != "":
		raw, find = q.Reviewee, s.Store.Reviews.FindByReviewee
	case q.Reviewer != "":
		raw, find = q.Reviewer, s.Store.Reviews.FindByReviewer
	case q.Listing != "":
		raw, find = q.Listing, s.Store.Reviews.FindByListing
	default:
		return nil, apperror.Invalid("Please provide a reviewee, reviewer or listing filter")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return []domain.Review{}, nil
	}
	return find(ctx, id)
}

type CreateInput struct {
	ReviewerID string  `json:"reviewerId" validate:"required"`
	RevieweeID string  `json:"revieweeId" validate:"required"`
	ListingID  string  `json:"listingId"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Review, error) {
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Invalid(err.Error())
	}
	reviewerID, err := uuid.Parse(in.ReviewerID)
	if err != nil {
		return nil, apperror.NotFound("Reviewer not found")
	}
	revieweeID, err := uuid.Parse(in.RevieweeID)
	if err != nil {
		return nil, apperror.NotFound("Reviewee not found")
	}
	if reviewerID == revieweeID {
		return nil, apperror.Invalid("Users cannot review themselves")
	}
	parties := []struct {
		id  uuid.UUID
		msg string
	}{{reviewerID, "Reviewer not found"}, {revieweeID, "Reviewee not found"}}
	for _, p := range parties {
		u, err := s.Store.Users.FindByID(ctx, p.id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperror.NotFound(p.msg)
		}
	}

	r := &domain.Review{ReviewerID: reviewerID, RevieweeID: revieweeID, Rating: in.Rating}
	if in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		if c != "" {
			r.Comment = &c
		}
	}
	if in.ListingID != "" {
		listingID, err := uuid.Parse(in.ListingID)
		if err != nil {
			return nil, apperror.NotFound("Listing not found")
		}
		l, err := s.Store.Listings.FindByID(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, apperror.NotFound("Listing not found")
		}
		r.ListingID = &listingID
	}
	if err := s.Store.Reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
