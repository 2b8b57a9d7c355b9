package models

import (
	"time"

	"gorm.io/gorm"
)

type ActivityLog struct {
	gorm.Model
	CreatedAt    time.Time `json:"createdAt"`
	UserID       uint      `json:"userId" gorm:"not null;index"`
	User         User      `json:"user" gorm:"foreignKey:UserID"`
	TargetUserID uint      `json:"targetUserId"`
	ProductID    uint      `json:"productId"`
	SitterID     uint      `json:"sitterId"`
	Activity     string    `json:"activity" gorm:"not null;type:varchar(50)"` // "user_followed", "request_approved", etc.
}
