package client

import "sync"

// Mutation is the optimistic update cycle shared by the like, comment and
// repost actions: apply the local delta, commit the request, then reconcile
// with the server's authoritative result or revert the delta on failure.
type Mutation struct {
	Apply     func()
	Commit    func() error
	Reconcile func()
	Revert    func()
}

// Run executes the cycle. The commit error is returned after the revert so
// callers can surface it.
func (m Mutation) Run() error {
	if m.Apply != nil {
		m.Apply()
	}
	if err := m.Commit(); err != nil {
		if m.Revert != nil {
			m.Revert()
		}
		return err
	}
	if m.Reconcile != nil {
		m.Reconcile()
	}
	return nil
}

// InFlightGuard makes a second submission for a key a no-op while one is
// still in flight
type InFlightGuard struct {
	mu     sync.Mutex
	active map[string]bool
}

// TryAcquire reserves the key, reporting false if it is already held
func (g *InFlightGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		g.active = make(map[string]bool)
	}
	if g.active[key] {
		return false
	}
	g.active[key] = true
	return true
}

// Release frees the key
func (g *InFlightGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// LikeResult is the server's authoritative outcome of a like toggle
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// ToggleLike runs the optimistic like state machine for a post: flip the
// liked flag and nudge the counter locally, commit, then overwrite both
// with the server's result or roll the flip back. While a toggle for the
// post is in flight further toggles are no-ops.
func (s *Session) ToggleLike(postID string, commit func() (LikeResult, error)) error {
	if !s.guard.TryAcquire("like:" + postID) {
		return nil
	}
	defer s.guard.Release("like:" + postID)

	wasLiked := s.view.Liked(postID)
	delta := 1
	if wasLiked {
		delta = -1
	}

	var result LikeResult
	return Mutation{
		Apply: func() {
			s.view.SetLiked(postID, !wasLiked)
			s.view.AdjustLikeCount(postID, delta)
		},
		Commit: func() error {
			var err error
			result, err = commit()
			return err
		},
		Reconcile: func() {
			s.view.SetLiked(postID, result.Liked)
			s.view.SetLikeCount(postID, result.LikeCount)
		},
		Revert: func() {
			s.view.SetLiked(postID, wasLiked)
			s.view.AdjustLikeCount(postID, -delta)
		},
	}.Run()
}
