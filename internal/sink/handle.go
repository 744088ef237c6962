package sink

import (
	"sync"
	"sync/atomic"
)

// Handle is a revocable reference to a published artifact.
type Handle struct {
	ID   string
	URL  string
	Name string

	once    sync.Once
	revoked atomic.Bool
	release func()
}

func newHandle(id, url, name string, release func()) *Handle {
	return &Handle{ID: id, URL: url, Name: name, release: release}
}

// Revoke releases the artifact. Calling it again, or on a nil handle, does
// nothing.
func (h *Handle) Revoke() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.revoked.Store(true)
		if h.release != nil {
			h.release()
		}
	})
}

func (h *Handle) Revoked() bool {
	return h != nil && h.revoked.Load()
}
