package models

import "time"

// ContentVersion is an immutable copy of a post or comment taken just before
// an edit overwrote it. Rows are append-only; nothing updates or deletes them.
type ContentVersion struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	ParentID   int64  `gorm:"not null;index:idx_versions_parent,priority:1" json:"parent_id"`
	ParentKind string `gorm:"size:16;not null;index:idx_versions_parent,priority:2" json:"parent_kind"`
	Title      string `gorm:"size:300" json:"title"`
	Body       string `gorm:"type:text" json:"body"`
	EditedBy   int64  `gorm:"not null" json:"edited_by"`

	CreatedAt time.Time `json:"created_at"`
}
