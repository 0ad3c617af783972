package models

import "time"

// Like records that a user liked a post. The composite primary key enforces
// at most one like per (user, post) pair; unlike hard-deletes the row. This
// table is the toggle-state source of truth, the post's LikeCount is a cache.
type Like struct {
	UserID    string    `json:"userId" gorm:"primaryKey;size:36"`
	PostID    string    `json:"postId" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeToggleResponse is returned by the like endpoint: the toggle outcome
// plus the post as re-read from the store after the write.
type LikeToggleResponse struct {
	Liked bool `json:"liked"`
	Post
}
