package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use credential for the reset flow. It is
// unrelated to bearer tokens: the raw value is opaque and only ever checked
// by exact match. Expired rows are never swept; expiry is checked at
// redemption time.
type PasswordResetToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Used      bool      `gorm:"default:false" json:"used"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Active reports whether the token can still be redeemed.
func (t *PasswordResetToken) Active(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
