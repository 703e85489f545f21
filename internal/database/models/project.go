package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	Base
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `gorm:"default:'active';index" json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	ClientID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`

	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
	Tasks  []Task  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}
