package sink

import (
	"context"
	"sync"
)

// Session holds at most one live handle, e.g. the track currently attached
// to the player.
type Session struct {
	mu      sync.Mutex
	current *Handle
}

func NewSession() *Session {
	return &Session{}
}

// Replace revokes the current handle, if any, and then makes h current.
func (s *Session) Replace(h *Handle) {
	s.install(nil, h)
}

// Adopt is Replace for a handle produced by a request that may have been
// abandoned: if ctx is done the handle is revoked instead of being
// installed, the current handle stays, and Adopt reports false.
func (s *Session) Adopt(ctx context.Context, h *Handle) bool {
	return s.install(ctx, h)
}

// install does the ctx check, the revocation of the previous handle and the
// store as one step under s.mu, so Current never returns a handle while an
// older one is still served.
func (s *Session) install(ctx context.Context, h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx != nil && ctx.Err() != nil {
		if h != s.current {
			h.Revoke()
		}
		return false
	}

	if s.current != h {
		s.current.Revoke()
	}
	s.current = h
	return true
}

// Current returns the live handle or nil.
func (s *Session) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close revokes the current handle. It is safe to call repeatedly.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Revoke()
	s.current = nil
}
