package client

import (
	"sync"

	"github.com/pulsefeed/backend/internal/realtime"
)

// PostView holds the locally cached counters for one visible post
type PostView struct {
	LikeCount    int
	CommentCount int64
	RepostCount  int64
}

// ViewState is a session's local cache of post counters and its liked set.
// Incoming events carry absolute values, so applying one is a pure
// overwrite: replaying the same event is idempotent, but a stale event can
// overwrite a newer one. The realtime layer is not authoritative; a full
// reload corrects any drift.
type ViewState struct {
	mu     sync.Mutex
	selfID string
	posts  map[string]PostView
	liked  map[string]bool
}

// NewViewState creates view state for the given local identity
func NewViewState(selfID string) *ViewState {
	return &ViewState{
		selfID: selfID,
		posts:  make(map[string]PostView),
		liked:  make(map[string]bool),
	}
}

// ApplyPostUpdate reconciles a post-updated event into the cache. Events
// originating from the local identity are discarded: the optimistic update
// is already authoritative for the session's own actions, and applying the
// echo would double-count. Returns whether the event mutated state.
func (v *ViewState) ApplyPostUpdate(event realtime.PostUpdatedEvent) bool {
	if event.UserID == v.selfID {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts[event.PostID] = PostView{
		LikeCount:    event.LikeCount,
		CommentCount: event.CommentCount,
		RepostCount:  event.RepostCount,
	}
	if event.Liked != nil {
		if *event.Liked {
			v.liked[event.PostID] = true
		} else {
			delete(v.liked, event.PostID)
		}
	}
	return true
}

// Post returns the cached view of a post
func (v *ViewState) Post(postID string) (PostView, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	view, ok := v.posts[postID]
	return view, ok
}

// SetPost seeds or overwrites the cached view of a post
func (v *ViewState) SetPost(postID string, view PostView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts[postID] = view
}

// Liked reports whether the post is in the local liked set
func (v *ViewState) Liked(postID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.liked[postID]
}

// SetLiked adds or removes a post from the local liked set
func (v *ViewState) SetLiked(postID string, liked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if liked {
		v.liked[postID] = true
	} else {
		delete(v.liked, postID)
	}
}

// AdjustLikeCount applies a local delta to a post's cached like counter.
// Used by optimistic updates only; event reconciliation always overwrites.
func (v *ViewState) AdjustLikeCount(postID string, delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := v.posts[postID]
	view.LikeCount += delta
	v.posts[postID] = view
}

// SetLikeCount overwrites a post's cached like counter with an
// authoritative value
func (v *ViewState) SetLikeCount(postID string, likeCount int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := v.posts[postID]
	view.LikeCount = likeCount
	v.posts[postID] = view
}
