package cli

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/config"
	"github.com/dmitrijs2005/cdnkeeper/internal/cryptox"
	"github.com/dmitrijs2005/cdnkeeper/internal/fetch"
	"github.com/dmitrijs2005/cdnkeeper/internal/logging"
	"github.com/dmitrijs2005/cdnkeeper/internal/netx"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	files    []fetch.FileDescriptor
	payloads map[string]string
	listErr  error
}

func (f *fakeSource) List(ctx context.Context) ([]fetch.FileDescriptor, error) {
	return f.files, f.listErr
}

func (f *fakeSource) Fetch(ctx context.Context, name string, progress netx.ProgressFunc) (string, error) {
	text, ok := f.payloads[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, name)
	}
	if progress != nil {
		progress(int64(len(text)), int64(len(text)))
	}
	return text, nil
}

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

// sealSingleChunk produces the transport text of a payload that fits into
// one chunk: base64(nonce || ciphertext || tag).
func sealSingleChunk(t *testing.T, key, plaintext []byte) string {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := make([]byte, gcm.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	raw := gcm.Seal(append([]byte(nil), nonce...), nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(raw)
}

func newTestApp(t *testing.T, src *fakeSource, key []byte) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()

	keys := cryptox.NewKeyProvider(cryptox.AlgorithmAESGCM, base64.StdEncoding.EncodeToString(key))
	out := &bytes.Buffer{}
	return newApp(cfg, src, keys, logging.Discard(), out), out
}

func descriptor(name string, size int64, uploaded time.Time) fetch.FileDescriptor {
	return fetch.FileDescriptor{Name: name, Size: size, UploadDate: uploaded, Category: classify.CategoryOf(name)}
}
