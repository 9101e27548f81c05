package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Listing struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	HostID        uuid.UUID `gorm:"not null;index"`
	Title         string    `gorm:"size:255;not null"`
	Description   string    `gorm:"type:text"`
	Location      string    `gorm:"size:255;not null"`
	PricePerNight float64   `gorm:"type:numeric(10,2);not null"`
	PhotoURL      *string   `gorm:"size:512"`

	Host User `gorm:"foreignkey:HostID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
