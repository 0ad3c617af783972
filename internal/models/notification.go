package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeRepost  = "repost"
)

// Notification is a persisted inbox entry for the author of an affected
// post. Content is pre-rendered at creation time. Rows are never deleted;
// the only mutation after creation is the read flag.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Type      string    `json:"type" gorm:"size:20;index"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId" gorm:"size:36;index"` // recipient: the original post's author
	SenderID  string    `json:"senderId" gorm:"size:36;index"`
	Sender    *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	PostID    *string   `json:"postId" gorm:"size:36"`
	Post      *Post     `json:"post,omitempty" gorm:"foreignKey:PostID"`
	CommentID *string   `json:"commentId" gorm:"size:36"`
	Comment   *Comment  `json:"comment,omitempty" gorm:"foreignKey:CommentID"`
	Read      bool      `json:"read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// MarkReadRequest defines the request body for bulk mark-as-read
type MarkReadRequest struct {
	NotificationIDs []string `json:"notificationIds"`
}
