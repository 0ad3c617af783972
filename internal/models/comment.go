package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post. Append-only; displayed in
// creation-time ascending order.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId" gorm:"size:36;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	PostID    string    `json:"postId" gorm:"size:36;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}
