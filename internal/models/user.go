// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a user account in PixelPost.
//
// Follower and following lists are not stored on the user row; they are
// derived from Follow edge rows (see follow.go). Followers/Following are
// populated by the repository for profile responses.
//
// Deleting an account removes the row outright rather than
// soft-deleting it: the unique email column must become free for
// re-registration.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null;index" json:"name"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	AvatarPublicID string    `json:"-"`
	AvatarURL      string    `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Password reset: sha256 hex of the opaque token mailed to the user.
	ResetPasswordToken  string     `gorm:"index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	Posts []Post `gorm:"foreignKey:OwnerID" json:"posts,omitempty"`

	// Computed relations, filled by the service layer for profile
	// responses.
	Followers []User `gorm:"-" json:"followers,omitempty"`
	Following []User `gorm:"-" json:"following,omitempty"`
}
