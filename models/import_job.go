package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	ImportCompleted           = "completed"
	ImportCompletedWithErrors = "completed_with_errors"
	ImportFailed              = "failed"
)

// ImportJob records one CSV bulk-import run. RowErrors keeps one
// "line N: reason" entry per rejected row.
type ImportJob struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	User         User           `json:"-" gorm:"foreignKey:UserID"`
	Kind         string         `json:"kind" gorm:"type:varchar(20);not null"` // "products"
	Status       string         `json:"status" gorm:"type:varchar(30);not null"`
	FileName     string         `json:"file_name"`
	TotalRows    int            `json:"total_rows"`
	ImportedRows int            `json:"imported_rows"`
	FailedRows   int            `json:"failed_rows"`
	RowErrors    pq.StringArray `json:"row_errors" gorm:"type:text[]"`
	CreatedAt    time.Time      `json:"created_at"`
}
