package models

import (
	"time"
)

const (
	PackageTypeSingle   = "single"
	PackageTypePackage  = "package"
	PackageTypeRoadTest = "road_test"
)

// Package is a catalog entry. It is the template a UserPackage is stamped
// from at purchase time; later catalog edits never touch existing grants.
type Package struct {
	ID              uint           `gorm:"primary_key" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	NumberOfLessons int            `gorm:"not null;default:1" json:"number_of_lessons"`
	Price           float64        `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice   *float64       `gorm:"type:numeric(10,2)" json:"original_price"`
	DurationHours   float64        `gorm:"type:numeric(4,1);not null;default:1.0" json:"duration_hours"`
	ValidityDays    int            `gorm:"not null;default:365" json:"validity_days"`
	PackageType     string         `gorm:"size:20;not null;default:'single'" json:"package_type"`
	IsPopular       bool           `gorm:"not null;default:false" json:"is_popular"`
	Features        []string       `gorm:"serializer:json" json:"features"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
