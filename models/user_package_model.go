package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidQuota = errors.New("invalid lessons_used value")

// UserPackage is a purchased batch of prepaid lessons. PackageName is a
// frozen copy of the catalog name at purchase time. PaymentIntentID carries
// the external payment reference; its unique index is what makes payment
// reconciliation idempotent.
type UserPackage struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"not null;index" json:"user_id"`
	PackageID        uint      `gorm:"not null" json:"package_id"`
	PackageName      string    `gorm:"size:255;not null" json:"package_name"`
	TotalLessons     int       `gorm:"not null" json:"total_lessons"`
	LessonsUsed      int       `gorm:"not null;default:0" json:"lessons_used"`
	LessonsRemaining int       `gorm:"not null" json:"lessons_remaining"`
	PurchaseDate     time.Time `gorm:"not null" json:"purchase_date"`
	ExpiryDate       time.Time `gorm:"not null" json:"expiry_date"`
	PaymentIntentID  *string   `gorm:"size:255;unique" json:"payment_intent_id"`
	PurchasePrice    float64   `gorm:"type:numeric(10,2);default:0.00" json:"purchase_price"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (up *UserPackage) BeforeCreate(tx *gorm.DB) error {
	if up.ID == uuid.Nil {
		up.ID = uuid.New()
	}
	return nil
}

func (up *UserPackage) HasRemainingLessons() bool {
	return up.LessonsRemaining > 0
}

func (up *UserPackage) IsExpired() bool {
	return time.Now().After(up.ExpiryDate)
}

// SetLessonsUsed applies an administrative quota correction, keeping
// lessons_used + lessons_remaining == total_lessons.
func (up *UserPackage) SetLessonsUsed(lessonsUsed int) error {
	if lessonsUsed < 0 || lessonsUsed > up.TotalLessons {
		return ErrInvalidQuota
	}
	up.LessonsUsed = lessonsUsed
	up.LessonsRemaining = up.TotalLessons - lessonsUsed
	return nil
}
