package models

import "time"

// Comment represents a comment on a post.
// A post holds at most one comment per author; the unique
// (post_id, author_id) index backs the service-level upsert.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_comment_post_author" json:"author_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_comment_post_author" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
