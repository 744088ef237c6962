// Package pipeline turns a fetched payload into plaintext: transport
// decoding, framing, per-chunk authenticated decryption and reassembly.
//
// Chunks are opened concurrently by a bounded worker group but always
// reassembled by index, so the output does not depend on scheduling. Any
// failing chunk aborts the whole file; callers never see partial plaintext.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/cryptox"
	"github.com/dmitrijs2005/cdnkeeper/internal/logging"
	"github.com/dmitrijs2005/cdnkeeper/internal/wire"
	"golang.org/x/sync/errgroup"
)

// Decryptor runs the decryption pipeline. It is safe for concurrent use; the
// key handle is shared read-only between invocations.
type Decryptor struct {
	keys    *cryptox.KeyProvider
	layout  wire.Layout
	workers int
	log     logging.Logger
}

// NewDecryptor creates a Decryptor. workers <= 0 means GOMAXPROCS; 1 opens
// chunks sequentially.
func NewDecryptor(keys *cryptox.KeyProvider, layout wire.Layout, workers int, log logging.Logger) *Decryptor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Decryptor{keys: keys, layout: layout, workers: workers, log: log}
}

// DecryptText decodes the base64 transport text and decrypts it.
func (d *Decryptor) DecryptText(ctx context.Context, text string, progress chan<- Progress) ([]byte, error) {
	raw, err := wire.DecodeTransport(text)
	if err != nil {
		return nil, err
	}
	return d.Decrypt(ctx, raw, progress)
}

// Decrypt frames raw and opens every chunk with the payload nonce.
func (d *Decryptor) Decrypt(ctx context.Context, raw []byte, progress chan<- Progress) ([]byte, error) {
	payload, err := wire.Frame(raw, d.layout)
	if err != nil {
		return nil, err
	}

	total := int64(len(payload.Chunks))
	notify(progress, Progress{Stage: StageFramed, Done: 0, Total: total})

	key, err := d.keys.Key()
	if err != nil {
		return nil, err
	}
	if key.NonceSize() != d.layout.NonceSize || key.Overhead() != d.layout.TagSize {
		return nil, fmt.Errorf("%w: %s uses nonce=%d tag=%d, layout has nonce=%d tag=%d",
			common.ErrMalformedPayload, key.Algorithm(), key.NonceSize(), key.Overhead(),
			d.layout.NonceSize, d.layout.TagSize)
	}

	d.log.Debug(ctx, "decrypting payload", "chunks", total, "bytes", len(raw), "workers", d.workers)

	out := make([][]byte, len(payload.Chunks))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, chunk := range payload.Chunks {
		if gctx.Err() != nil {
			break
		}
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pt, err := key.OpenChunk(payload.Nonce, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i, total, err)
			}
			out[i] = pt
			notify(progress, Progress{Stage: StageDecrypting, Done: done.Add(1), Total: total})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, pt := range out {
			common.WipeByteArray(pt)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plaintext := Assemble(out)
	notify(progress, Progress{Stage: StageAssembled, Done: total, Total: total})
	return plaintext, nil
}
