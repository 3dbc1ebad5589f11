package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User holds login credentials. PasswordHash is never serialized; responses
// use PublicUser.
type User struct {
	ID           string    `json:"_id" gorm:"type:char(24);primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null" validate:"required"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an identifier before insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// Normalize trims the name and normalizes the email.
func (u *User) Normalize() {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
}

// Public returns the credential-free projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser is the only user shape returned to clients.
type PublicUser struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
