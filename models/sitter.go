package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Sitter is a babysitter listing owned by the user offering the service.
type Sitter struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"not null;uniqueIndex"` // one listing per user
	User           User           `json:"-" gorm:"foreignKey:UserID"`
	Headline       string         `json:"headline" gorm:"type:varchar(120);not null"`
	Bio            string         `json:"bio" gorm:"type:text"`
	HourlyRate     float64        `json:"hourly_rate" gorm:"not null;default:0"`
	City           string         `json:"city" gorm:"type:varchar(80);index"`
	Latitude       float64        `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude      float64        `json:"longitude" gorm:"type:decimal(11,8)"`
	Certifications pq.StringArray `json:"certifications" gorm:"type:text[]"` // "CPR", "First Aid", ...
	AvailableDays  pq.StringArray `json:"available_days" gorm:"type:text[]"` // "mon".."sun"
	YearsExp       int            `json:"years_experience" gorm:"default:0"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
