package repository

import (
	"context"
	"strings"

	"agriconnect-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Repository[domain.WasteListing]
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.WasteListing, error)
	// Search matches query case-insensitively against title, description and
	// subtype, combined with the exact-match filters. An empty query is FindAll.
	Search(ctx context.Context, query string, filters Filters) ([]domain.WasteListing, error)
	IncrementInterestCount(ctx context.Context, id uuid.UUID) error
	// MarkSold reports whether the listing changed state.
	MarkSold(ctx context.Context, id uuid.UUID) (bool, error)
}

type listingRepo struct {
	crud[domain.WasteListing]
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *listingRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.WasteListing, error) {
	return r.FindAll(ctx, Filters{"seller_id": sellerID})
}

func (r *listingRepo) Search(ctx context.Context, query string, filters Filters) ([]domain.WasteListing, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	q := r.where(r.db.WithContext(ctx), filters)
	if query != "" {
		pattern := "%" + likeEscaper.Replace(query) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(subtype) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	return r.find(q.Order(newestFirst))
}

func (r *listingRepo) IncrementInterestCount(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&domain.WasteListing{}).Where("id = ?", id).
		UpdateColumn("interest_count", gorm.Expr("interest_count + ?", 1)).Error
	if err != nil {
		return r.wrap("increment interest count", err)
	}
	return nil
}

func (r *listingRepo) MarkSold(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.WasteListing{}).
		Where("id = ? AND status <> ?", id, domain.ListingSold).
		Updates(map[string]interface{}{"status": domain.ListingSold})
	if res.Error != nil {
		return false, r.wrap("mark sold", res.Error)
	}
	return res.RowsAffected > 0, nil
}
