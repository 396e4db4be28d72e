package models

import "time"

type Post struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:300;not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	AuthorID    int64  `gorm:"not null;index" json:"author_id"`
	CommunityID int64  `gorm:"not null;index:idx_posts_comm_time_id,priority:1" json:"community_id"`

	User User `gorm:"foreignKey:AuthorID" json:"user"`

	CreatedAt time.Time  `gorm:"index:idx_posts_comm_time_id,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (p *Post) Deleted() bool { return p.DeletedAt != nil }

type CreatePostRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	CommunityID int64  `json:"community_id"`
}
