package models

import "time"

// Follow is a directed social edge: FollowerID follows FolloweeID.
//
// The edge is stored exactly once; "B is in A's following" and
// "A is in B's followers" are both views over the same row, so the
// two lists can never disagree.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName keeps the table name plural alongside users and posts.
func (Follow) TableName() string {
	return "follows"
}
