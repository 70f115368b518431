package testutil

import (
	"testing"

	"agriconnect-backend/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// User inserts a user with a throwaway password hash.
func User(t *testing.T, db *gorm.DB, name, email, role string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Role: role, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Listing inserts an active listing for seller.
func Listing(t *testing.T, db *gorm.DB, seller *domain.User, title string, price float64) *domain.WasteListing {
	t.Helper()
	l := &domain.WasteListing{
		SellerID:    seller.ID,
		Title:       title,
		Description: "Clean material available for collection.",
		WasteType:   "Agricultural",
		Subtype:     "Rice Husk",
		Quantity:    2,
		Unit:        "ton",
		Price:       price,
		Status:      domain.ListingActive,
		Location:    "Guntur, Andhra Pradesh",
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
