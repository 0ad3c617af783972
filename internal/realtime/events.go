package realtime

import (
	"encoding/json"

	"github.com/pulsefeed/backend/internal/models"
)

// Event names carried on the wire
const (
	EventPostUpdated     = "post-updated"
	EventNewNotification = "new-notification"
)

// Envelope frames every published payload with its event name
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PostUpdatedEvent is broadcast on a post's channel after a mutation
// commits. Counts are absolute values read back from the store, not deltas,
// so receivers can apply them idempotently under duplicate delivery. UserID
// is the acting identity; receivers matching it discard the event.
type PostUpdatedEvent struct {
	PostID       string                   `json:"postId"`
	LikeCount    int                      `json:"likeCount"`
	CommentCount int64                    `json:"commentCount"`
	RepostCount  int64                    `json:"repostCount"`
	Liked        *bool                    `json:"liked,omitempty"`
	NewComment   *models.Comment          `json:"newComment,omitempty"`
	NewRepost    *models.RepostDescriptor `json:"newRepost,omitempty"`
	UserID       string                   `json:"userId"`
}
