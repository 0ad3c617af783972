package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a feed entry. A row with RepostOfID set is a repost
// wrapper: it carries no content of its own and points at the original.
// LikeCount is a cached counter kept in sync with the likes table by the
// like toggle transaction; it is never recomputed from the likes table on
// read.
type Post struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	AuthorID   string  `json:"authorId" gorm:"size:36;index;uniqueIndex:idx_posts_author_repost_of"`
	Author     *User   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	LikeCount  int     `json:"likeCount" gorm:"not null;default:0"`
	RepostOfID *string `json:"repostOfId" gorm:"size:36;index;uniqueIndex:idx_posts_author_repost_of"`
	RepostOf   *Post   `json:"repostOf,omitempty" gorm:"foreignKey:RepostOfID"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	Reposts  []Post    `json:"reposts,omitempty" gorm:"foreignKey:RepostOfID"`

	// Derived counts filled by the repository, not stored columns.
	CommentCount int64 `json:"commentCount" gorm:"-"`
	RepostCount  int64 `json:"repostCount" gorm:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=120"`
	Content string  `json:"content" validate:"required,min=1,max=5000"`
}

// FeedItem wraps a post for the feed response, tagging reposts
type FeedItem struct {
	Type      string    `json:"type"` // "post" or "repost"
	CreatedAt time.Time `json:"createdAt"`
	Post      *Post     `json:"post"`
}

// RepostDescriptor is the repost endpoint response: the original post plus
// who reposted it and when
type RepostDescriptor struct {
	Type       string      `json:"type"` // always "repost"
	CreatedAt  time.Time   `json:"createdAt"`
	Post       *Post       `json:"post"`
	RepostedBy UserCompact `json:"repostedBy"`
}
