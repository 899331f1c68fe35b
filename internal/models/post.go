// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents an image post in PixelPost.
//
// OwnerID is immutable after creation. Likes and comments are owned by
// the post: deleting the post deletes them.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Caption       string         `gorm:"type:text" json:"caption"`
	ImagePublicID string         `gorm:"not null" json:"image_public_id"`
	ImageURL      string         `gorm:"not null" json:"image_url"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"`
	Owner         User           `gorm:"foreignKey:OwnerID" json:"owner"`
	Likes         []Like         `gorm:"foreignKey:PostID" json:"likes,omitempty"`
	Comments      []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
