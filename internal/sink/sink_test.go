package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestNewArtifact_Defaults(t *testing.T) {
	a := NewArtifact("x", []byte("abc"), "", "")
	assert.Equal(t, classify.DefaultMimeType, a.MimeType)
	assert.Equal(t, classify.CategoryOther, a.Category)
	assert.Equal(t, 3, a.Size())
}

func TestArtifact_SniffMismatch(t *testing.T) {
	a := NewArtifact("photo.png", pngHeader, "image/png", classify.CategoryImage)
	got, mismatch := a.SniffMismatch()
	assert.Equal(t, "image/png", got)
	assert.False(t, mismatch)

	lying := NewArtifact("song.mp3", pngHeader, "audio/mpeg", classify.CategoryAudio)
	_, mismatch = lying.SniffMismatch()
	assert.True(t, mismatch)

	unknown := NewArtifact("blob", pngHeader, classify.DefaultMimeType, classify.CategoryOther)
	_, mismatch = unknown.SniffMismatch()
	assert.False(t, mismatch)
	assert.Equal(t, "image/png", unknown.Sniff())
}

func TestHandle_RevokeIsIdempotent(t *testing.T) {
	calls := 0
	h := newHandle("id", "url", "name", func() { calls++ })

	assert.False(t, h.Revoked())
	h.Revoke()
	h.Revoke()
	assert.True(t, h.Revoked())
	assert.Equal(t, 1, calls)

	var nilHandle *Handle
	assert.NotPanics(t, nilHandle.Revoke)
	assert.False(t, nilHandle.Revoked())
}

func TestRegistry_PublishServeRevoke(t *testing.T) {
	reg := NewRegistry("http://127.0.0.1:1/")
	a := NewArtifact("song.mp3", []byte("ID3 fake audio"), "audio/mpeg", classify.CategoryAudio)

	h := reg.Publish(a)
	assert.Equal(t, "http://127.0.0.1:1/artifacts/"+h.ID, h.URL)
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get(h.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	srv := httptest.NewServer(reg)
	defer srv.Close()

	resp, err := http.Get(srv.URL + PathPrefix + h.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename=song.mp3`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "ID3 fake audio", string(body))

	resp, err = http.Get(srv.URL + PathPrefix + h.ID + "?download=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, `attachment; filename=song.mp3`, resp.Header.Get("Content-Disposition"))

	h.Revoke()
	assert.Equal(t, 0, reg.Len())

	resp, err = http.Get(srv.URL + PathPrefix + h.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegistry_ServeRange(t *testing.T) {
	reg := NewRegistry("")
	h := reg.Publish(NewArtifact("clip.mp4", []byte("0123456789"), "video/mp4", classify.CategoryVideo))

	req := httptest.NewRequest(http.MethodGet, PathPrefix+h.ID, nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "2345", rec.Body.String())
}

func TestRegistry_BadRequests(t *testing.T) {
	reg := NewRegistry("")
	h := reg.Publish(NewArtifact("a.txt", []byte("x"), "text/plain", classify.CategoryDocument))

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown id", http.MethodGet, PathPrefix + "nope", http.StatusNotFound},
		{"no id", http.MethodGet, PathPrefix, http.StatusNotFound},
		{"wrong prefix", http.MethodGet, "/other/" + h.ID, http.StatusNotFound},
		{"nested", http.MethodGet, PathPrefix + h.ID + "/x", http.StatusNotFound},
		{"post", http.MethodPost, PathPrefix + h.ID, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			reg.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSession_ReplaceRevokesPreviousOnce(t *testing.T) {
	var mu sync.Mutex
	revoked := map[string]int{}
	mk := func(id string) *Handle {
		return newHandle(id, "", id, func() {
			mu.Lock()
			revoked[id]++
			mu.Unlock()
		})
	}

	s := NewSession()
	first, second := mk("first"), mk("second")

	s.Replace(first)
	assert.Same(t, first, s.Current())

	s.Replace(second)
	assert.Same(t, second, s.Current())
	assert.Equal(t, 1, revoked["first"])
	assert.Equal(t, 0, revoked["second"])

	// replacing with the same handle keeps it alive
	s.Replace(second)
	assert.Equal(t, 0, revoked["second"])

	s.Close()
	s.Close()
	first.Revoke()
	assert.Nil(t, s.Current())
	assert.Equal(t, 1, revoked["first"])
	assert.Equal(t, 1, revoked["second"])
}

func TestSession_AdoptAbandoned(t *testing.T) {
	reg := NewRegistry("")
	s := NewSession()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := reg.Publish(NewArtifact("late.mp3", []byte("x"), "audio/mpeg", classify.CategoryAudio))
	assert.False(t, s.Adopt(ctx, h))
	assert.True(t, h.Revoked())
	assert.Nil(t, s.Current())
	assert.Equal(t, 0, reg.Len())

	h2 := reg.Publish(NewArtifact("now.mp3", []byte("y"), "audio/mpeg", classify.CategoryAudio))
	assert.True(t, s.Adopt(context.Background(), h2))
	assert.Same(t, h2, s.Current())
}

func TestSession_ReplaceRevokesBeforeInstalling(t *testing.T) {
	s := NewSession()

	var currentAtRevoke *Handle
	first := newHandle("first", "", "first", func() {
		// runs under s.mu, inside Replace
		currentAtRevoke = s.current
	})
	second := newHandle("second", "", "second", func() {})

	s.Replace(first)
	s.Replace(second)

	assert.Same(t, first, currentAtRevoke, "previous handle must be revoked while still current")
	assert.True(t, first.Revoked())
	assert.Same(t, second, s.Current())
}

func TestSession_AdoptAbandonedKeepsCurrent(t *testing.T) {
	s := NewSession()
	playing := newHandle("playing", "", "playing", func() {})
	s.Replace(playing)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	late := newHandle("late", "", "late", func() {})
	assert.False(t, s.Adopt(ctx, late))
	assert.True(t, late.Revoked())
	assert.False(t, playing.Revoked())
	assert.Same(t, playing, s.Current())

	// re-adopting the current handle with a done ctx must not revoke it
	assert.False(t, s.Adopt(ctx, playing))
	assert.False(t, playing.Revoked())
}

func TestSession_ConcurrentReplace(t *testing.T) {
	reg := NewRegistry("")
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h := reg.Publish(NewArtifact("t.mp3", []byte("x"), "audio/mpeg", classify.CategoryAudio))
				s.Adopt(context.Background(), h)
			}
		}()
	}
	wg.Wait()

	cur := s.Current()
	require.NotNil(t, cur)
	assert.False(t, cur.Revoked())
	assert.Equal(t, 1, reg.Len())

	s.Close()
	assert.Equal(t, 0, reg.Len())
}

func TestSaveToDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	a := NewArtifact("report.pdf", []byte("%PDF-1.4"), "application/pdf", classify.CategoryDocument)

	path, err := SaveToDisk(dir, a)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", filepath.Base(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes, got)
}

func TestSaveToDisk_RejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"", ".", "..", "../evil", "a/b", `a\b`, "nul\x00"} {
		_, err := SaveToDisk(dir, NewArtifact(name, []byte("x"), "", ""))
		require.ErrorIs(t, err, common.ErrInvalidName, name)
	}
}
