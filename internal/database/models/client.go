package models

import "github.com/google/uuid"

type Client struct {
	Base
	Name    string    `gorm:"not null" json:"name"`
	Email   string    `gorm:"index;not null" json:"email"`
	Phone   string    `json:"phone,omitempty"`
	Company string    `json:"company,omitempty"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Projects []Project `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}
