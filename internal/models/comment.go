package models

import "time"

type Comment struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Body     string `gorm:"type:text;not null" json:"body"`
	AuthorID int64  `gorm:"not null;index" json:"author_id"`
	PostID   int64  `gorm:"not null;index" json:"post_id"`

	// ParentCommentID, when set, must reference a comment on the same post.
	ParentCommentID *int64 `gorm:"index" json:"parent_comment_id,omitempty"`

	User User `gorm:"foreignKey:AuthorID" json:"user"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (c *Comment) Deleted() bool { return c.DeletedAt != nil }

type CreateCommentRequest struct {
	Body            string `json:"body"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}
