package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is a parent-recommended product.
type Product struct {
	gorm.Model
	Name            string         `json:"name" gorm:"type:varchar(200);not null"`
	Brand           string         `json:"brand" gorm:"type:varchar(100)"`
	Category        string         `json:"category" gorm:"type:varchar(60);not null;index"`
	AgeRange        string         `json:"age_range" gorm:"type:varchar(30)"` // "0-6m", "1-3y", ...
	Price           float64        `json:"price" gorm:"not null;default:0"`
	ImageURL        string         `json:"image_url"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	RecommendedByID uint           `json:"recommended_by_id" gorm:"index"`
	RecommendedBy   User           `json:"-" gorm:"foreignKey:RecommendedByID"`
	ImportJobID     *string        `json:"import_job_id" gorm:"type:uuid;index"` // set for CSV-imported rows
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
