package models

import "time"

const (
	FollowRequestPending  = "pending"
	FollowRequestApproved = "approved"
	FollowRequestDenied   = "denied"
)

// FollowRequest is a proposal to create a Follow edge, required when the
// requestee's profile is private. pending is the only mutable state:
// pending -> approved / denied (terminal), or deleted while pending (cancel).
//
// "One pending request per pair" is enforced by a partial unique index on
// (requester_id, requestee_id) WHERE status = 'pending', created in
// config.InitDB. GORM tags cannot express the WHERE clause.
type FollowRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequesterID uint      `json:"requester_id" gorm:"not null;index"`
	RequesteeID uint      `json:"requestee_id" gorm:"not null;index"`
	Status      string    `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Requester User `json:"-" gorm:"foreignKey:RequesterID"`
	Requestee User `json:"-" gorm:"foreignKey:RequesteeID"`
}
