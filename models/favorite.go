package models

import "time"

const (
	FavoriteProduct = "product"
	FavoriteSitter  = "sitter"
)

type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_item"`
	ItemType  string    `json:"item_type" gorm:"type:varchar(10);not null;uniqueIndex:idx_user_item"` // "product" or "sitter"
	ItemID    uint      `json:"item_id" gorm:"not null;uniqueIndex:idx_user_item"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
