package wire

import (
	"fmt"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
)

// Default framing constants shared with the encrypting server.
const (
	DefaultNonceSize = 12
	DefaultTagSize   = 16
	DefaultChunkSize = 1 * common.MiB
)

// Layout describes the framing convention. All three sizes must match the
// encrypting counterpart exactly.
type Layout struct {
	NonceSize int
	TagSize   int
	ChunkSize int
}

// DefaultLayout returns the 12/16/1 MiB layout used by the file server.
func DefaultLayout() Layout {
	return Layout{
		NonceSize: DefaultNonceSize,
		TagSize:   DefaultTagSize,
		ChunkSize: DefaultChunkSize,
	}
}

// Validate checks that every size is positive.
func (l Layout) Validate() error {
	if l.NonceSize <= 0 || l.TagSize <= 0 || l.ChunkSize <= 0 {
		return fmt.Errorf("%w: invalid layout nonce=%d tag=%d chunk=%d",
			common.ErrMalformedPayload, l.NonceSize, l.TagSize, l.ChunkSize)
	}
	return nil
}

// Window is the on-wire length of a full chunk.
func (l Layout) Window() int {
	return l.ChunkSize + l.TagSize
}

// EncryptedPayload is a framed payload. Chunks keep their wire order, which is
// the order of the plaintext they decrypt to.
type EncryptedPayload struct {
	Nonce  []byte
	Chunks [][]byte
}

// PlaintextLen is the number of plaintext bytes the payload decrypts to,
// assuming every tag verifies.
func (p *EncryptedPayload) PlaintextLen(tagSize int) int {
	n := 0
	for _, c := range p.Chunks {
		n += len(c) - tagSize
	}
	return n
}

// Frame splits raw into the leading nonce and the ordered ciphertext chunks.
//
// The chunks alias raw; no bytes are copied. A body of exactly TagSize bytes
// is the encoding of an empty file and yields a single tag-only chunk. Any
// other final window must hold more than TagSize bytes, and a body shorter
// than TagSize is rejected.
func Frame(raw []byte, l Layout) (*EncryptedPayload, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if len(raw) < l.NonceSize+l.TagSize {
		return nil, fmt.Errorf("%w: payload of %d bytes is shorter than nonce and tag (%d)",
			common.ErrMalformedPayload, len(raw), l.NonceSize+l.TagSize)
	}

	body := raw[l.NonceSize:]
	window := l.Window()

	p := &EncryptedPayload{
		Nonce:  raw[:l.NonceSize:l.NonceSize],
		Chunks: make([][]byte, 0, (len(body)+window-1)/window),
	}

	if len(body) == l.TagSize {
		p.Chunks = append(p.Chunks, body)
		return p, nil
	}

	for off := 0; off < len(body); off += window {
		end := min(off+window, len(body))
		chunk := body[off:end:end]
		if len(chunk) <= l.TagSize {
			return nil, fmt.Errorf("%w: chunk %d has %d bytes, need more than %d",
				common.ErrMalformedPayload, len(p.Chunks), len(chunk), l.TagSize)
		}
		p.Chunks = append(p.Chunks, chunk)
	}

	return p, nil
}
