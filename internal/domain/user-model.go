package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is an account. PasswordHash is nil for Google-only accounts.
// The partial unique index on role allows a single admin row.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	Provider     string    `gorm:"type:varchar(20);not null;default:'local'" json:"provider"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user';uniqueIndex:idx_users_single_admin,where:role = 'admin'" json:"role"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address      Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IsVerified   bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in locally.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
