package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ListingID  uuid.UUID `gorm:"not null;index"`
	GuestID    uuid.UUID `gorm:"not null;index"`
	CheckIn    time.Time `gorm:"not null"`
	CheckOut   time.Time `gorm:"not null"`
	Guests     int       `gorm:"not null;default:1"`
	TotalPrice float64   `gorm:"type:numeric(10,2);not null"`
	Status     string    `gorm:"size:20;not null;default:'pending'"`

	Listing Listing `gorm:"foreignkey:ListingID"`
	Guest   User    `gorm:"foreignkey:GuestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Nights returns the length of the stay used for pricing.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
