package sink

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PathPrefix is where the registry serves artifacts.
const PathPrefix = "/artifacts/"

type published struct {
	artifact *Artifact
	created  time.Time
}

// Registry keeps published artifacts in memory and serves them over HTTP
// until their handles are revoked.
type Registry struct {
	baseURL string

	mu    sync.RWMutex
	items map[string]published
}

// NewRegistry creates a registry whose handle URLs start with baseURL
// (e.g. "http://127.0.0.1:17234").
func NewRegistry(baseURL string) *Registry {
	return &Registry{
		baseURL: strings.TrimRight(baseURL, "/"),
		items:   make(map[string]published),
	}
}

// Publish makes a reachable and returns its handle.
func (r *Registry) Publish(a *Artifact) *Handle {
	id := uuid.NewString()

	r.mu.Lock()
	r.items[id] = published{artifact: a, created: time.Now()}
	r.mu.Unlock()

	return newHandle(id, r.baseURL+PathPrefix+id, a.Name, func() { r.remove(id) })
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

// Get returns the artifact behind a live handle id.
func (r *Registry) Get(id string) (*Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	return p.artifact, ok
}

// Len is the number of live artifacts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ServeHTTP serves GET /artifacts/<id>. Artifacts are served inline for
// media elements; ?download=1 asks the browser to save them under the
// original file name.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := strings.CutPrefix(req.URL.Path, PathPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, req)
		return
	}

	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		http.NotFound(w, req)
		return
	}

	disposition := "inline"
	if req.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}

	a := p.artifact
	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": a.Name}))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, req, a.Name, p.created, bytes.NewReader(a.Bytes))
}
