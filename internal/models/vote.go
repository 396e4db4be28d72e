package models

import "time"

// Target kinds a vote may point at.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Vote states. NONE is normally represented by the row being absent, but an
// explicit zero row must be read the same way.
const (
	VoteNone int8 = 0
	VoteUp   int8 = 1
	VoteDown int8 = -1
)

// Vote - one row per (user, target); state flips in place on revote.
type Vote struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	UserID     int64  `gorm:"not null;uniqueIndex:uk_votes_user_target,priority:1" json:"user_id"`
	TargetID   int64  `gorm:"not null;uniqueIndex:uk_votes_user_target,priority:2;index:idx_votes_target" json:"target_id"`
	TargetKind string `gorm:"size:16;not null;uniqueIndex:uk_votes_user_target,priority:3;index:idx_votes_target" json:"target_kind"`
	State      int8   `gorm:"not null" json:"state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
