package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a marketplace account. PasswordHash is a bcrypt hash and is never serialised.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(20);not null" json:"role"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	Address      *string   `gorm:"column:address" json:"address,omitempty"`
	City         *string   `gorm:"column:city" json:"city,omitempty"`
	State        *string   `gorm:"column:state" json:"state,omitempty"`
	Pincode      *string   `gorm:"column:pincode" json:"pincode,omitempty"`
	ProfileImage *string   `gorm:"column:profile_image" json:"profileImage,omitempty"`
	Bio          *string   `gorm:"column:bio" json:"bio,omitempty"`
	// PasswordChangedAt invalidates bearer tokens issued before it.
	PasswordChangedAt *time.Time `gorm:"column:password_changed_at" json:"-"`
	CreatedAt         time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets id if not already set (DBs without default uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
