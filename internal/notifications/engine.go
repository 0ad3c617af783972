package notifications

import (
	"context"
	"log"

	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/realtime"
	"github.com/pulsefeed/backend/internal/repositories"
)

// Engine converts a committed domain event (like/comment/repost) into zero
// or one notification rows. It never propagates failures into the mutation
// path that triggered it: every error is logged and swallowed, returning
// nil.
type Engine struct {
	posts         repositories.PostRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	publisher     *realtime.Publisher
}

// NewEngine creates a notification Engine
func NewEngine(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	publisher *realtime.Publisher,
) *Engine {
	return &Engine{
		posts:         postRepo,
		users:         userRepo,
		notifications: notifRepo,
		publisher:     publisher,
	}
}

// Create persists a notification for the author of the target post and
// pushes it on the recipient's personal channel. Returns nil without
// creating a row when the post is missing, when the sender is the post's
// own author, or when any step fails.
func (e *Engine) Create(ctx context.Context, notificationType, senderID, postID string, commentID *string) *models.Notification {
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		log.Printf("Create notification: post %s not found: %v", postID, err)
		return nil
	}

	// Acting on one's own post never notifies
	if post.AuthorID == senderID {
		return nil
	}

	sender, err := e.users.GetUserByID(senderID)
	if err != nil {
		log.Printf("Create notification: sender %s not found: %v", senderID, err)
		return nil
	}

	var content string
	switch notificationType {
	case models.NotificationTypeLike:
		content = sender.Name + " liked your post"
	case models.NotificationTypeComment:
		content = sender.Name + " commented on your post"
	case models.NotificationTypeRepost:
		content = sender.Name + " reposted your post"
	default:
		log.Printf("Create notification: unknown type %q", notificationType)
		return nil
	}

	notification := &models.Notification{
		Type:      notificationType,
		Content:   content,
		UserID:    post.AuthorID,
		SenderID:  senderID,
		PostID:    &postID,
		CommentID: commentID,
	}

	if err := e.notifications.CreateNotification(notification); err != nil {
		log.Printf("Create notification: persist failed: %v", err)
		return nil
	}

	notification.Sender = sender
	notification.Post = post

	// Best-effort push; a drop leaves the persisted row authoritative
	e.publisher.PublishNewNotification(notification)

	return notification
}
