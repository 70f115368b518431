package seed

import (
	"context"
	"fmt"
	"time"

	"agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

// Service loads demo data. It refuses to run in production.
type Service struct {
	Store      *repository.Store
	Users      *user.Service
	Production bool
	Now        func() time.Time
}

// Result summarises a seeding run.
type Result struct {
	AdminCreated  bool `json:"adminCreated"`
	SellersCount  int  `json:"sellersCount"`
	BuyersCount   int  `json:"buyersCount"`
	ListingsCount int  `json:"listingsCount"`
}

const demoPassword = "password123"

type demoListing struct {
	title, description, wasteType, subtype, unit string
	quantity, price                              float64
	sold                                         bool
}

var demoListings = []demoListing{
	{"Rice Husk - 2 Tons", "Clean rice husk available for collection.", "Agricultural", "Rice Husk", "ton", 2, 2000, false},
	{"Sugarcane Bagasse - 5 Tons", "Fresh sugarcane bagasse available.", "Agricultural", "Bagasse", "ton", 5, 4500, false},
	{"Coconut Shells - 500kg", "Dried coconut shells available.", "Agricultural", "Coconut Shells", "kg", 500, 1500, true},
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run creates the demo accounts and content. Existing users (by e-mail) and
// listings (by seller and title) are reused, so running twice adds nothing.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if s.Production {
		return nil, apperror.Forbidden("Seeding is disabled in production")
	}
	res := &Result{}

	admin, created, err := s.ensureUser(ctx, user.RegisterInput{
		Name: "Admin User", Email: "admin@agriconnect.com", Password: "admin123",
		Role: constants.Admin, Phone: ptr("+91 9876543210"),
	})
	if err != nil {
		return nil, err
	}
	res.AdminCreated = created && admin != nil

	sellerCities := [][2]string{{"Guntur", "Andhra Pradesh"}, {"Pune", "Maharashtra"}, {"Kochi", "Kerala"}}
	buyerCities := [][2]string{{"Bangalore", "Karnataka"}, {"Mumbai", "Maharashtra"}, {"Chennai", "Tamil Nadu"}}

	var sellers, buyers []*domain.User
	for i := 1; i <= 3; i++ {
		u, _, err := s.ensureUser(ctx, user.RegisterInput{
			Name: fmt.Sprintf("Seller %d", i), Email: fmt.Sprintf("seller%d@example.com", i),
			Password: demoPassword, Role: constants.Seller,
			Phone:   ptr(fmt.Sprintf("+91 98765432%d0", i)),
			Address: ptr(fmt.Sprintf("%d Farmer Street", i)),
			City:    ptr(sellerCities[i-1][0]), State: ptr(sellerCities[i-1][1]),
			Pincode: ptr(fmt.Sprintf("5000%d1", i)),
			Bio:     ptr(fmt.Sprintf("Experienced farmer with %d years in agriculture.", i*5)),
		})
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, u)
	}
	for i := 1; i <= 3; i++ {
		u, _, err := s.ensureUser(ctx, user.RegisterInput{
			Name: fmt.Sprintf("Buyer %d", i), Email: fmt.Sprintf("buyer%d@example.com", i),
			Password: demoPassword, Role: constants.Buyer,
			Phone:   ptr(fmt.Sprintf("+91 87654321%d0", i)),
			Address: ptr(fmt.Sprintf("%d Industry Road", i)),
			City:    ptr(buyerCities[i-1][0]), State: ptr(buyerCities[i-1][1]),
			Pincode: ptr(fmt.Sprintf("6000%d1", i)),
			Bio:     ptr("Industry professional looking for sustainable materials."),
		})
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, u)
	}
	res.SellersCount = len(sellers)
	res.BuyersCount = len(buyers)

	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		listings, fresh, err := s.ensureListings(ctx, tx, sellers)
		if err != nil {
			return err
		}
		res.ListingsCount = len(listings)
		if err := s.ensureInterests(ctx, tx, listings, buyers); err != nil {
			return err
		}
		if !fresh {
			return nil
		}
		return s.demoActivity(ctx, tx, listings, sellers, buyers)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) ensureUser(ctx context.Context, in user.RegisterInput) (*domain.User, bool, error) {
	existing, err := s.Store.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	u, err := s.Users.CreateWithRole(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// ensureListings reports fresh when any demo listing had to be created.
func (s *Service) ensureListings(ctx context.Context, tx *repository.Store, sellers []*domain.User) ([]*domain.WasteListing, bool, error) {
	var out []*domain.WasteListing
	fresh := false
	for i, d := range demoListings {
		seller := sellers[i%len(sellers)]
		found, err := tx.Listings.FindAll(ctx, repository.Filters{"seller_id": seller.ID, "title": d.title})
		if err != nil {
			return nil, false, err
		}
		if len(found) > 0 {
			out = append(out, &found[0])
			continue
		}
		status := domain.ListingActive
		if d.sold {
			status = domain.ListingSold
		}
		image := "/placeholder.svg?height=200&width=300&text=" + d.subtype
		l := &domain.WasteListing{
			SellerID: seller.ID, Title: d.title, Description: d.description,
			WasteType: d.wasteType, Subtype: d.subtype, Quantity: d.quantity, Unit: d.unit,
			Price: d.price, Status: status, Image: &image,
			Location: fmt.Sprintf("%s, %s", deref(seller.City), deref(seller.State)),
		}
		if err := tx.Listings.Create(ctx, l); err != nil {
			return nil, false, err
		}
		out = append(out, l)
		fresh = true
	}
	return out, fresh, nil
}

func (s *Service) ensureInterests(ctx context.Context, tx *repository.Store, listings []*domain.WasteListing, buyers []*domain.User) error {
	for i := 0; i < 5; i++ {
		l := listings[i%len(listings)]
		b := buyers[i%len(buyers)]
		if l.Status != domain.ListingActive {
			continue
		}
		existing, err := tx.Interests.FindByListingAndBuyer(ctx, l.ID, b.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		status := domain.InterestPending
		if i%3 == 0 {
			status = domain.InterestAccepted
		}
		in := &domain.Interest{ListingID: l.ID, BuyerID: b.ID, Status: status,
			Message: fmt.Sprintf("I'm interested in your %s listing.", l.Subtype)}
		if err := tx.Interests.Create(ctx, in); err != nil {
			return err
		}
		if err := tx.Listings.IncrementInterestCount(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// demoActivity adds messages, reviews, notifications and analytics the first
// time the demo listings are created.
func (s *Service) demoActivity(ctx context.Context, tx *repository.Store, listings []*domain.WasteListing, sellers, buyers []*domain.User) error {
	for i := 0; i < 5; i++ {
		seller, buyer, l := sellers[i%len(sellers)], buyers[i%len(buyers)], listings[i%len(listings)]
		from, to := seller.ID, buyer.ID
		if i%2 == 1 {
			from, to = buyer.ID, seller.ID
		}
		listingID := l.ID
		if err := tx.Messages.Create(ctx, &domain.Message{SenderID: from, ReceiverID: to, ListingID: &listingID,
			Content: fmt.Sprintf("Message %d: Regarding the %s listing.", i+1, l.Subtype)}); err != nil {
			return err
		}
	}

	for i := 0; i < 4; i++ {
		seller, buyer := sellers[i%len(sellers)], buyers[i%len(buyers)]
		r := &domain.Review{ReviewerID: buyer.ID, RevieweeID: seller.ID, Rating: 3 + i%3,
			Comment: ptr("Great seller! Professional transaction.")}
		if i%2 == 1 {
			r.ReviewerID, r.RevieweeID = seller.ID, buyer.ID
			r.Comment = ptr("Reliable buyer! Professional transaction.")
		}
		if err := tx.Reviews.Create(ctx, r); err != nil {
			return err
		}
	}

	for _, l := range listings {
		if l.Status != domain.ListingSold {
			continue
		}
		ins, err := tx.Interests.FindByListing(ctx, l.ID)
		if err != nil {
			return err
		}
		if len(ins) == 0 {
			continue
		}
		done := s.now().AddDate(0, 0, -7)
		if err := tx.Transactions.Create(ctx, &domain.Transaction{
			ListingID: l.ID, SellerID: l.SellerID, BuyerID: ins[0].BuyerID, InterestID: ins[0].ID,
			Amount: l.Price, Status: domain.TransactionCompleted, CompletedAt: &done,
		}); err != nil {
			return err
		}
	}

	types := []string{domain.NotificationNewInterest, domain.NotificationInterestAccepted,
		domain.NotificationMessage, domain.NotificationListingUpdate, domain.NotificationSystem}
	people := append(append([]*domain.User{}, sellers...), buyers...)
	for i := 0; i < 5; i++ {
		var related *uuid.UUID
		if i%2 == 0 {
			id := listings[i%len(listings)].ID
			related = &id
		}
		if err := tx.Notifications.Create(ctx, &domain.Notification{
			UserID: people[i%len(people)].ID, Type: types[i%len(types)],
			Title: fmt.Sprintf("Notification %d", i+1), Message: fmt.Sprintf("This is a %s notification.", types[i%len(types)]),
			RelatedID: related,
		}); err != nil {
			return err
		}
	}

	metrics := []string{domain.MetricListingsCreated, domain.MetricUsersRegistered, domain.MetricTransactionsCompleted,
		domain.MetricInterestsCreated, domain.MetricWasteDiverted}
	for i := 0; i < 10; i++ {
		if _, err := tx.Analytics.Increment(ctx, metrics[i%len(metrics)], float64(10+i*5), s.now().AddDate(0, 0, -i)); err != nil {
			return err
		}
	}
	return nil
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
