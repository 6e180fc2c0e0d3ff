package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusScheduled = "scheduled"
	BookingStatusCancelled = "cancelled"
)

// Booking is a single lesson reservation. Date and Time are kept as the
// plain "YYYY-MM-DD" / "HH:MM" strings the slot calendar works with; a
// partial unique index on (date, time) for non-cancelled rows makes slots
// exclusive (see database.Migrate).
type Booking struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID  `gorm:"not null;index" json:"user_id"`
	Date            string     `gorm:"size:10;not null" json:"date"`
	Time            string     `gorm:"size:5;not null" json:"time"`
	DurationMinutes int        `gorm:"not null;default:60" json:"duration_minutes"`
	InstructorName  string     `gorm:"size:255" json:"instructor_name"`
	Notes           string     `gorm:"size:1000" json:"notes"`
	Status          string     `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	IsVerified      bool       `gorm:"not null;default:false" json:"is_verified"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	UserPackageID   *uuid.UUID `json:"user_package_id"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// CanBeVerified reports whether an admin may mark the booking honored.
// Only pending scheduled bookings qualify.
func (b *Booking) CanBeVerified() bool {
	return b.Status == BookingStatusScheduled && !b.IsVerified
}

// CanBeRejected reports whether an admin may reject the booking. A
// verified or cancelled booking is past the point of rejection.
func (b *Booking) CanBeRejected() bool {
	return b.Status == BookingStatusScheduled && !b.IsVerified
}
