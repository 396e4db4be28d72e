package models

import "time"

// RecentCommunity records the last time a user touched a community (visit,
// post, join). Full history is kept; readers only ever surface the top few.
type RecentCommunity struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:uk_recent_user_comm,priority:1" json:"user_id"`
	CommunityID    int64     `gorm:"not null;uniqueIndex:uk_recent_user_comm,priority:2" json:"community_id"`
	LastActivityAt time.Time `gorm:"not null;index" json:"last_activity_at"`
}
