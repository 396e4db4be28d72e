package models

import "time"

type Community struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CreatorID   int64  `gorm:"not null;index" json:"creator_id"`

	// MemberCount mirrors the number of joined memberships. It is
	// reconciled inside every membership mutation, never incremented blind.
	MemberCount int64 `gorm:"not null;default:0" json:"member_count"`

	// Disabled communities and everything under them disappear from
	// listings but keep their rows.
	Disabled bool `gorm:"not null;default:false" json:"disabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
