package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	return NewStore(testutil.NewDB(t))
}

func seedUser(t *testing.T, s *Store, email, role string) *domain.User {
	u := &domain.User{Name: email, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func seedListing(t *testing.T, s *Store, seller uuid.UUID, title, wasteType string) *domain.WasteListing {
	l := &domain.WasteListing{
		SellerID: seller, Title: title, Description: "Clean and dry " + title,
		WasteType: wasteType, Subtype: title, Quantity: 2, Unit: "ton", Price: 2000,
		Status: domain.ListingActive, Location: "Punjab",
	}
	require.NoError(t, s.Listings.Create(context.Background(), l))
	return l
}

func TestCRUD_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	l := seedListing(t, s, seller.ID, "Rice Husk", "Agricultural")
	assert.NotEqual(t, uuid.Nil, l.ID)

	got, err := s.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Rice Husk", got.Title)
	assert.Equal(t, 2000.0, got.Price)

	before := got.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	updated, err := s.Listings.Update(ctx, l.ID, map[string]interface{}{"status": domain.ListingSold})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.ListingSold, updated.Status)
	assert.Equal(t, 2000.0, updated.Price)
	assert.Equal(t, "Rice Husk", updated.Title)
	assert.True(t, updated.UpdatedAt.After(before))

	ok, err := s.Listings.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Listings.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = s.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_Missing(t *testing.T) {
	s := setupStore(t)
	got, err := s.Listings.Update(context.Background(), uuid.New(), map[string]interface{}{"title": "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindAll_FiltersNewestFirst(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	first := seedListing(t, s, seller.ID, "Rice Husk", "Agricultural")
	time.Sleep(5 * time.Millisecond)
	second := seedListing(t, s, seller.ID, "Wheat Straw", "Agricultural")
	seedListing(t, s, seller.ID, "Plastic Drums", "Industrial")

	got, err := s.Listings.FindAll(ctx, Filters{"waste_type": "Agricultural"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	none, err := s.Listings.FindAll(ctx, Filters{"status": domain.ListingArchived})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Len(t, none, 0)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := setupStore(t)
	seedUser(t, s, "buyer@example.com", "buyer")
	err := s.Users.Create(context.Background(), &domain.User{Name: "Other", Email: "buyer@example.com", PasswordHash: "x", Role: "buyer"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	u, err := s.Users.FindByEmail(context.Background(), " Buyer@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "buyer@example.com", u.Email)
}

func TestListings_Search(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	seedListing(t, s, seller.ID, "Rice Husk", "Agricultural")
	seedListing(t, s, seller.ID, "Coconut Shells", "Agricultural")
	seedListing(t, s, seller.ID, "Rice 100% Bran", "Industrial")

	got, err := s.Listings.Search(ctx, "RICE", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Listings.Search(ctx, "rice", Filters{"waste_type": "Agricultural"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice Husk", got[0].Title)

	got, err = s.Listings.Search(ctx, "100%", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice 100% Bran", got[0].Title)

	got, err = s.Listings.Search(ctx, "%", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListings_IncrementAndMarkSold(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	l := seedListing(t, s, seller.ID, "Rice Husk", "Agricultural")

	require.NoError(t, s.Listings.IncrementInterestCount(ctx, l.ID))
	require.NoError(t, s.Listings.IncrementInterestCount(ctx, l.ID))
	changed, err := s.Listings.MarkSold(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.Listings.MarkSold(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := s.Listings.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.InterestCount)
	assert.Equal(t, domain.ListingSold, got.Status)
}

func TestInterests_UniquePairAndTransition(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	buyer := seedUser(t, s, "buyer@example.com", "buyer")
	l := seedListing(t, s, seller.ID, "Rice Husk", "Agricultural")

	in := &domain.Interest{ListingID: l.ID, BuyerID: buyer.ID, Status: domain.InterestPending}
	require.NoError(t, s.Interests.Create(ctx, in))
	err := s.Interests.Create(ctx, &domain.Interest{ListingID: l.ID, BuyerID: buyer.ID, Status: domain.InterestPending})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := s.Interests.FindByListingAndBuyer(ctx, l.ID, buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, in.ID, found.ID)

	changed, err := s.Interests.TransitionStatus(ctx, in.ID, domain.InterestAccepted)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.Interests.TransitionStatus(ctx, in.ID, domain.InterestAccepted)
	require.NoError(t, err)
	assert.False(t, changed)

	byBuyer, err := s.Interests.FindByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, domain.InterestAccepted, byBuyer[0].Status)
}

func TestMessages_Conversation(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := seedUser(t, s, "a@example.com", "seller")
	b := seedUser(t, s, "b@example.com", "buyer")
	c := seedUser(t, s, "c@example.com", "buyer")

	m1 := &domain.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "hello"}
	require.NoError(t, s.Messages.Create(ctx, m1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Messages.Create(ctx, &domain.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "hi"}))
	require.NoError(t, s.Messages.Create(ctx, &domain.Message{SenderID: c.ID, ReceiverID: a.ID, Content: "other"}))

	conv, err := s.Messages.FindConversation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "hello", conv[0].Content)
	assert.Equal(t, "hi", conv[1].Content)

	unread, err := s.Messages.FindUnreadByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	read, err := s.Messages.MarkRead(ctx, m1.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	unread, err = s.Messages.FindUnreadByUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, unread, 0)

	all, err := s.Messages.FindByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReviews_AverageRating(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "seller@example.com", "seller")
	buyer := seedUser(t, s, "buyer@example.com", "buyer")

	empty, err := s.Reviews.AverageRating(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
	assert.Equal(t, 0.0, empty.Average)

	require.NoError(t, s.Reviews.Create(ctx, &domain.Review{ReviewerID: buyer.ID, RevieweeID: seller.ID, Rating: 4}))
	require.NoError(t, s.Reviews.Create(ctx, &domain.Review{ReviewerID: buyer.ID, RevieweeID: seller.ID, Rating: 5}))

	r, err := s.Reviews.AverageRating(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), r.Count)
	assert.InDelta(t, 4.5, r.Average, 0.001)
}

func TestTransactions_CompleteAndCancel(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	tx := &domain.Transaction{ListingID: uuid.New(), SellerID: uuid.New(), BuyerID: uuid.New(), InterestID: uuid.New(), Amount: 2000, Status: domain.TransactionPending}
	require.NoError(t, s.Transactions.Create(ctx, tx))

	done, err := s.Transactions.Complete(ctx, tx.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, done)
	done, err = s.Transactions.Complete(ctx, tx.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, done)
	cancelled, err := s.Transactions.Cancel(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)

	got, err := s.Transactions.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestAnalytics_Increment(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 15, 4, 5, 0, time.UTC)

	a, err := s.Analytics.Increment(ctx, domain.MetricListingsCreated, 1, now)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.Value)
	a, err = s.Analytics.Increment(ctx, domain.MetricListingsCreated, 2, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3.0, a.Value)
	_, err = s.Analytics.Increment(ctx, domain.MetricListingsCreated, 1, now.AddDate(0, 0, 1))
	require.NoError(t, err)

	rows, err := s.Analytics.FindByMetric(ctx, domain.MetricListingsCreated, domain.PeriodDaily)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	latest, err := s.Analytics.Latest(ctx, domain.MetricListingsCreated)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 1.0, latest.Value)
	assert.True(t, latest.Date.Equal(domain.Day(now.AddDate(0, 0, 1))))

	none, err := s.Analytics.Latest(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAnalytics_IncrementInTransaction(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := s.Analytics.Increment(ctx, domain.MetricWasteDiverted, 2.5, day)
	require.NoError(t, err)

	// The bucket already exists; the transaction must stay usable afterwards.
	err = s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.Analytics.Increment(ctx, domain.MetricWasteDiverted, 4, day); err != nil {
			return err
		}
		if _, err := tx.Analytics.Increment(ctx, domain.MetricTransactionsCompleted, 1, day); err != nil {
			return err
		}
		_, err := tx.Analytics.Increment(ctx, domain.MetricWasteDiverted, 0.5, day)
		return err
	})
	require.NoError(t, err)

	got, err := s.Analytics.Latest(ctx, domain.MetricWasteDiverted)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7.0, got.Value)
	rows, err := s.Analytics.FindByMetric(ctx, domain.MetricWasteDiverted, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Users.Create(ctx, &domain.User{Name: "x", Email: "x@example.com", PasswordHash: "h", Role: "buyer"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, err := s.Users.FindByEmail(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}
