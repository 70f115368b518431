package repository

import (
	"context"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
)

// Rating is the aggregate of a user's received reviews.
type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type ReviewRepository interface {
	Repository[domain.Review]
	FindByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]domain.Review, error)
	FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error)
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error)
	AverageRating(ctx context.Context, revieweeID uuid.UUID) (Rating, error)
}

type reviewRepo struct {
	crud[domain.Review]
}

func (r *reviewRepo) FindByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]domain.Review, error) {
	return r.FindAll(ctx, Filters{"reviewee_id": revieweeID})
}

func (r *reviewRepo) FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	return r.FindAll(ctx, Filters{"reviewer_id": reviewerID})
}

func (r *reviewRepo) FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	return r.FindAll(ctx, Filters{"listing_id": listingID})
}

func (r *reviewRepo) AverageRating(ctx context.Context, revieweeID uuid.UUID) (Rating, error) {
	var out Rating
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("reviewee_id = ?", revieweeID).
		Scan(&out).Error
	if err != nil {
		return Rating{}, r.wrap("average rating", err)
	}
	return out, nil
}
