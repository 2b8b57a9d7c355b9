package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

type User struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Email           string         `gorm:"unique;not null" json:"email"`
	Password        *string        `gorm:"type:varchar(100)" json:"-"` // nil for Google-only accounts
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	PhoneNumber     *string        `gorm:"unique" json:"phone_number"`
	PhoneSearchable bool           `gorm:"default:false" json:"phone_searchable"`
	PrivacySetting  string         `gorm:"type:varchar(10);not null;default:'public'" json:"privacy_setting"` // "public" or "private"
	Bio             string         `json:"bio"`
	Avatar          string         `json:"avatar"`
	City            string         `json:"city"`
	GoogleID        *string        `gorm:"unique" json:"-"`
	Provider        string         `gorm:"type:varchar(20);default:'email'" json:"provider"`
	EmailVerified   bool           `json:"email_verified"`

	Followers []User `json:"-" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowingID;References:ID;joinReferences:FollowerID"`
	Following []User `json:"-" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowerID;References:ID;joinReferences:FollowingID"`

	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsPrivate() bool {
	return u.PrivacySetting == PrivacyPrivate
}
