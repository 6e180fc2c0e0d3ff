package models

import (
	"time"
)

const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
)

// ContactMessage is a public enquiry submitted through the contact form.
// Admins triage it through the status field.
type ContactMessage struct {
	ID      uint    `gorm:"primary_key" json:"id"`
	Name    string  `gorm:"size:100;not null" json:"name"`
	Email   string  `gorm:"size:150;not null" json:"email"`
	Phone   *string `gorm:"size:30" json:"phone"`
	Subject string  `gorm:"size:200" json:"subject"`
	Message string  `gorm:"type:text;not null" json:"message"`
	Status  string  `gorm:"size:20;not null;default:'new'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
