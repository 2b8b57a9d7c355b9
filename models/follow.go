package models

import "time"

// Follow is a confirmed one-directional "follows" edge. Rows are only ever
// created (directly for public profiles, or by approving a request) and
// deleted (unfollow, remove follower).
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID"`
	Following User `json:"-" gorm:"foreignKey:FollowingID"`
}
