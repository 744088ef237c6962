package pipeline

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"testing"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/cryptox"
	"github.com/dmitrijs2005/cdnkeeper/internal/fetch"
	"github.com/dmitrijs2005/cdnkeeper/internal/logging"
	"github.com/dmitrijs2005/cdnkeeper/internal/netx"
	"github.com/dmitrijs2005/cdnkeeper/internal/wire"
	"github.com/stretchr/testify/require"
)

var (
	testKey   = bytes.Repeat([]byte{0x42}, 32)
	testNonce = []byte("0123456789ab")
)

// smallLayout keeps multi-chunk payloads small.
var smallLayout = wire.Layout{NonceSize: 12, TagSize: 16, ChunkSize: 64}

// encryptLikeServer reproduces the file server's framing. Test use only: it
// reuses one nonce for every chunk, exactly as the server does.
func encryptLikeServer(t *testing.T, key, nonce, plaintext []byte, chunkSize int) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	out := bytes.Clone(nonce)
	if len(plaintext) == 0 {
		return gcm.Seal(out, nonce, nil, nil)
	}
	for off := 0; off < len(plaintext); off += chunkSize {
		end := min(off+chunkSize, len(plaintext))
		out = gcm.Seal(out, nonce, plaintext[off:end], nil)
	}
	return out
}

func plaintextOf(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + i/251)
	}
	return b
}

func keyProvider(t *testing.T) *cryptox.KeyProvider {
	t.Helper()
	return cryptox.NewKeyProvider(cryptox.AlgorithmAESGCM, base64.StdEncoding.EncodeToString(testKey))
}

func newTestDecryptor(t *testing.T, layout wire.Layout, workers int) *Decryptor {
	t.Helper()
	return NewDecryptor(keyProvider(t), layout, workers, logging.Discard())
}

type fakeSource struct {
	files map[string]string
	err   error
}

func (f *fakeSource) List(ctx context.Context) ([]fetch.FileDescriptor, error) {
	return nil, nil
}

func (f *fakeSource) Fetch(ctx context.Context, name string, progress netx.ProgressFunc) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.files[name]
	if !ok {
		return "", common.ErrNotFound
	}
	if progress != nil {
		progress(int64(len(text)), int64(len(text)))
	}
	return text, nil
}
