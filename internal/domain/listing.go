package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ListingActive   = "active"
	ListingSold     = "sold"
	ListingArchived = "archived"
)

// ListingStatuses lists every valid WasteListing status.
var ListingStatuses = []string{ListingActive, ListingSold, ListingArchived}

// WasteListing is a seller's posted lot of waste material. Quantity and Price
// are canonical numbers; formatting belongs to the client.
type WasteListing struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SellerID       uuid.UUID         `gorm:"column:seller_id;type:uuid;not null;index" json:"sellerId"`
	Title          string            `gorm:"column:title;not null" json:"title"`
	Description    string            `gorm:"column:description;not null" json:"description"`
	WasteType      string            `gorm:"column:waste_type;not null;index" json:"wasteType"`
	Subtype        string            `gorm:"column:subtype;not null" json:"subtype"`
	Quantity       float64           `gorm:"column:quantity;type:decimal(18,2);not null" json:"quantity"`
	Unit           string            `gorm:"column:unit;not null" json:"unit"`
	Price          float64           `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	Status         string            `gorm:"column:status;type:varchar(20);not null;default:'active';index" json:"status"`
	Image          *string           `gorm:"column:image" json:"image,omitempty"`
	Location       string            `gorm:"column:location;not null" json:"location"`
	Specifications datatypes.JSONMap `gorm:"column:specifications" json:"specifications,omitempty"`
	ContactNumber  *string           `gorm:"column:contact_number" json:"contactNumber,omitempty"`
	InterestCount  int               `gorm:"column:interest_count;not null;default:0" json:"interestCount"`
	CreatedAt      time.Time         `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"column:updatedAt" json:"updatedAt"`
}

func (WasteListing) TableName() string {
	return "WasteListings"
}

func (l *WasteListing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
