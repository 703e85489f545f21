package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	Base
	Amount        float64   `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"default:'USD'" json:"currency"`
	Description   string    `json:"description,omitempty"`
	Status        string    `gorm:"default:'pending';index" json:"status"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	TransactionID string    `gorm:"uniqueIndex" json:"transactionId"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	PaymentDate   time.Time `json:"paymentDate"`

	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
