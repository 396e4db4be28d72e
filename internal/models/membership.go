package models

import "time"

// Membership tracks join state per (user, community). Leaving flips Joined
// off and stamps EndedAt rather than deleting the row, so rejoining reuses it.
type Membership struct {
	ID          int64 `gorm:"primaryKey" json:"id"`
	UserID      int64 `gorm:"not null;uniqueIndex:uk_memberships_user_comm,priority:1" json:"user_id"`
	CommunityID int64 `gorm:"not null;uniqueIndex:uk_memberships_user_comm,priority:2;index" json:"community_id"`
	Joined      bool  `gorm:"not null;default:false" json:"joined"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
