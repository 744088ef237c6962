// Package cryptox holds the decryption side of the file server's envelope:
// importing the shared key and opening individual chunks.
//
// Nothing in this package can encrypt. The server reuses a single nonce for
// every chunk of a file; that convention is reproduced here for
// compatibility and must not be carried into any encrypting code.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm names an AEAD construction.
type Algorithm string

const (
	AlgorithmAESGCM           Algorithm = "aes-gcm"
	AlgorithmChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm accepts the configuration spelling of an algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case AlgorithmAESGCM, AlgorithmChaCha20Poly1305:
		return a, nil
	case "":
		return AlgorithmAESGCM, nil
	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", common.ErrKeyImport, s)
	}
}

// KeySizes lists the raw key lengths the algorithm accepts.
func (a Algorithm) KeySizes() []int {
	switch a {
	case AlgorithmAESGCM:
		return []int{16, 24, 32}
	case AlgorithmChaCha20Poly1305:
		return []int{chacha20poly1305.KeySize}
	default:
		return nil
	}
}

// KeyHandle is an imported key bound to one algorithm. It can only open
// ciphertext and is safe for concurrent use.
type KeyHandle struct {
	alg  Algorithm
	aead cipher.AEAD
}

// ImportKey decodes a base64 key blob and imports it for decryption.
func ImportKey(alg Algorithm, b64 string) (*KeyHandle, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("%w: key is not valid base64", common.ErrKeyImport)
	}
	return ImportRawKey(alg, raw)
}

// ImportRawKey imports raw key bytes. The slice is wiped before returning,
// whether or not the import succeeds.
func ImportRawKey(alg Algorithm, raw []byte) (*KeyHandle, error) {
	defer common.WipeByteArray(raw)

	if !slices.Contains(alg.KeySizes(), len(raw)) {
		return nil, fmt.Errorf("%w: %d-byte key does not fit %s (want one of %v)",
			common.ErrKeyImport, len(raw), alg, alg.KeySizes())
	}

	var (
		aead cipher.AEAD
		err  error
	)

	switch alg {
	case AlgorithmAESGCM:
		var block cipher.Block
		block, err = aes.NewCipher(raw)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case AlgorithmChaCha20Poly1305:
		aead, err = chacha20poly1305.New(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyImport, err)
	}

	return &KeyHandle{alg: alg, aead: aead}, nil
}

func (k *KeyHandle) Algorithm() Algorithm { return k.alg }

// NonceSize and Overhead expose the framing sizes the key expects.
func (k *KeyHandle) NonceSize() int { return k.aead.NonceSize() }
func (k *KeyHandle) Overhead() int  { return k.aead.Overhead() }

// OpenChunk authenticates and decrypts one chunk (ciphertext ‖ tag) with the
// payload nonce. A failed tag check returns common.ErrIntegrity and no
// plaintext.
func (k *KeyHandle) OpenChunk(nonce, chunk []byte) ([]byte, error) {
	if len(nonce) != k.aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes, key expects %d",
			common.ErrMalformedPayload, len(nonce), k.aead.NonceSize())
	}
	if len(chunk) < k.aead.Overhead() {
		return nil, fmt.Errorf("%w: chunk of %d bytes is shorter than the tag",
			common.ErrMalformedPayload, len(chunk))
	}

	plaintext, err := k.aead.Open(nil, nonce, chunk, nil)
	if err != nil {
		return nil, common.ErrIntegrity
	}
	return plaintext, nil
}

// KeyProvider imports a static key on first use and hands out the same
// handle for the life of the process. A failed import is remembered too.
type KeyProvider struct {
	load func() (*KeyHandle, error)
}

// NewKeyProvider returns a provider for the given base64 key blob.
func NewKeyProvider(alg Algorithm, b64 string) *KeyProvider {
	return NewKeyProviderFunc(func() (*KeyHandle, error) {
		return ImportKey(alg, b64)
	})
}

// NewKeyProviderFunc wraps an arbitrary import step, e.g. an interactive
// prompt.
func NewKeyProviderFunc(fn func() (*KeyHandle, error)) *KeyProvider {
	return &KeyProvider{load: sync.OnceValues(fn)}
}

// Key returns the cached handle, importing it on the first call.
func (p *KeyProvider) Key() (*KeyHandle, error) {
	return p.load()
}
