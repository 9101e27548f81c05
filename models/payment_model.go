package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
)

const (
	PaymentMethodChapa = "CHAPA"
	PaymentMethodCash  = "CASH"
	PaymentMethodCard  = "CARD"
)

// Payment is the single payment attempt for a booking. The unique index on
// BookingID enforces the one-payment-per-booking pairing; a failed attempt is
// re-armed in place instead of creating a second row.
type Payment struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID            uuid.UUID `gorm:"uniqueIndex;not null"`
	TransactionReference string    `gorm:"size:100;uniqueIndex;not null"`
	ChapaTxRef           *string   `gorm:"size:100;uniqueIndex"`
	Amount               float64   `gorm:"type:numeric(10,2);not null"`
	Currency             string    `gorm:"size:3;not null;default:'ETB'"`
	Status               string    `gorm:"size:20;not null;default:'PENDING'"`
	PaymentMethod        string    `gorm:"size:20;not null;default:'CHAPA'"`

	FirstName   string `gorm:"size:100;not null"`
	LastName    string `gorm:"size:100"`
	Email       string `gorm:"size:255;not null"`
	PhoneNumber string `gorm:"size:20"`

	// Raw gateway payloads, kept for audit and debugging only.
	ChapaResponse        []byte `gorm:"type:jsonb"`
	VerificationResponse []byte `gorm:"type:jsonb"`

	Booking Booking `gorm:"foreignkey:BookingID"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.TransactionReference == "" {
		p.TransactionReference = uuid.NewString()
	}
	return nil
}
