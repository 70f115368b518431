package listings

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/application/listingevents"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var errNotFound = apperror.NotFound("Listing not found")

// RequiredFields are checked in order; the first missing one is reported.
var RequiredFields = []string{"sellerId", "title", "description", "wasteType", "subtype", "quantity", "unit", "price", "location"}

type Service struct {
	Store     *repository.Store
	Analytics *analytics.Service
}

// ListParams are the GET /api/listings query parameters.
type ListParams struct {
	Type   string
	Status string
	Seller string
	Query  string
}

func (s *Service) List(ctx context.Context, p ListParams) ([]domain.WasteListing, error) {
	filters := repository.Filters{}
	if p.Type != "" {
		filters["waste_type"] = p.Type
	}
	if p.Status != "" {
		filters["status"] = p.Status
	}
	if p.Seller != "" {
		sellerID, err := uuid.Parse(p.Seller)
		if err != nil {
			return []domain.WasteListing{}, nil
		}
		filters["seller_id"] = sellerID
	}
	return s.Store.Listings.Search(ctx, p.Query, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.WasteListing, error) {
	l, err := s.Store.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, errNotFound
	}
	return l, nil
}

// Create validates body, forces status active and records the CREATED event.
func (s *Service) Create(ctx context.Context, body map[string]interface{}, actor *uuid.UUID) (*domain.WasteListing, error) {
	if f := validation.FirstMissing(body, RequiredFields...); f != "" {
		return nil, apperror.Invalid(fmt.Sprintf("Missing required field: %s", f))
	}
	sellerStr, _ := body["sellerId"].(string)
	sellerID, err := uuid.Parse(sellerStr)
	if err != nil {
		return nil, apperror.Invalid("Invalid sellerId")
	}

	l := &domain.WasteListing{SellerID: sellerID, Status: domain.ListingActive}
	fields, err := readFields(body)
	if err != nil {
		return nil, err
	}
	apply(l, fields)
	// Status is not client-controlled on create.
	l.Status = domain.ListingActive

	seller, err := s.Store.Users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, apperror.NotFound("Seller not found")
	}

	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Listings.Create(ctx, l); err != nil {
			return err
		}
		return listingevents.Record(ctx, tx.ListingEvents, l.ID, domain.ListingEventCreated, map[string]interface{}{
			"title":    l.Title,
			"price":    l.Price,
			"quantity": l.Quantity,
			"unit":     l.Unit,
		}, actor)
	})
	if err != nil {
		return nil, err
	}
	s.Analytics.Record(ctx, domain.MetricListingsCreated, 1)
	return l, nil
}

// Update merges whitelisted fields over the stored listing. Fields absent
// from body are left untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, body map[string]interface{}, actor *uuid.UUID) (*domain.WasteListing, error) {
	fields, err := readFields(body)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperror.Invalid("No valid update fields provided")
	}

	var updated *domain.WasteListing
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		before, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return errNotFound
		}
		cols := make(map[string]interface{}, len(fields))
		keys := make([]string, 0, len(fields))
		for k, v := range fields {
			cols[columns[k]] = v
			keys = append(keys, k)
		}
		sort.Strings(keys)

		updated, err = tx.Listings.Update(ctx, id, cols)
		if err != nil {
			return err
		}
		if updated == nil {
			return errNotFound
		}
		if err := listingevents.Record(ctx, tx.ListingEvents, id, domain.ListingEventUpdated, map[string]interface{}{"fields": keys}, actor); err != nil {
			return err
		}
		if before.Status != domain.ListingSold && updated.Status == domain.ListingSold {
			return listingevents.Record(ctx, tx.ListingEvents, id, domain.ListingEventSold, map[string]interface{}{"price": updated.Price}, actor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	return s.Store.Transaction(ctx, func(tx *repository.Store) error {
		l, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return errNotFound
		}
		if _, err := tx.Listings.Delete(ctx, id); err != nil {
			return err
		}
		return listingevents.Record(ctx, tx.ListingEvents, id, domain.ListingEventDeleted, map[string]interface{}{"title": l.Title}, actor)
	})
}

// columns maps writable JSON keys to table columns.
var columns = map[string]string{
	"title":          "title",
	"description":    "description",
	"wasteType":      "waste_type",
	"subtype":        "subtype",
	"quantity":       "quantity",
	"unit":           "unit",
	"price":          "price",
	"status":         "status",
	"image":          "image",
	"location":       "location",
	"specifications": "specifications",
	"contactNumber":  "contact_number",
}

var statuses = map[string]bool{domain.ListingActive: true, domain.ListingSold: true, domain.ListingArchived: true}

// readFields validates the writable keys present in body and returns their
// typed values keyed by JSON name. Unknown keys are ignored.
func readFields(body map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for key := range columns {
		v, ok := body[key]
		if !ok {
			continue
		}
		switch key {
		case "quantity":
			n, ok := validation.Number(v)
			if !ok || n <= 0 {
				return nil, apperror.Invalid("Invalid quantity: must be a positive number")
			}
			out[key] = n
		case "price":
			n, ok := validation.Number(v)
			if !ok || n < 0 {
				return nil, apperror.Invalid("Invalid price: must be a non-negative number")
			}
			out[key] = n
		case "status":
			st, _ := v.(string)
			if !statuses[st] {
				return nil, apperror.Invalid("Invalid status: must be one of active, sold, archived")
			}
			out[key] = st
		case "specifications":
			specs, err := readSpecifications(v)
			if err != nil {
				return nil, err
			}
			out[key] = specs
		case "image", "contactNumber":
			if v == nil {
				out[key] = nil
				continue
			}
			str, ok := v.(string)
			if !ok {
				return nil, apperror.Invalid("Invalid " + key)
			}
			out[key] = str
		default:
			str, ok := v.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return nil, apperror.Invalid("Invalid " + key)
			}
			out[key] = strings.TrimSpace(str)
		}
	}
	return out, nil
}

func readSpecifications(v interface{}) (datatypes.JSONMap, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, apperror.Invalid("Invalid specifications: must be an object")
	}
	specs := datatypes.JSONMap{}
	for k, val := range m {
		switch t := val.(type) {
		case string:
			specs[k] = t
		case float64, bool:
			specs[k] = fmt.Sprint(t)
		default:
			return nil, apperror.Invalid("Invalid specifications: values must be strings")
		}
	}
	return specs, nil
}

// apply copies validated fields onto a new listing.
func apply(l *domain.WasteListing, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "title":
			l.Title = v.(string)
		case "description":
			l.Description = v.(string)
		case "wasteType":
			l.WasteType = v.(string)
		case "subtype":
			l.Subtype = v.(string)
		case "quantity":
			l.Quantity = v.(float64)
		case "price":
			l.Price = v.(float64)
		case "unit":
			l.Unit = v.(string)
		case "location":
			l.Location = v.(string)
		case "status":
			l.Status = v.(string)
		case "image":
			if s, ok := v.(string); ok && s != "" {
				l.Image = &s
			}
		case "contactNumber":
			if s, ok := v.(string); ok && s != "" {
				l.ContactNumber = &s
			}
		case "specifications":
			if specs, ok := v.(datatypes.JSONMap); ok {
				l.Specifications = specs
			}
		}
	}
}
