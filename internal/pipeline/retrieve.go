package pipeline

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/fetch"
	"github.com/dmitrijs2005/cdnkeeper/internal/sink"
)

// Retrieve fetches name from src, decrypts it and wraps the plaintext in an
// artifact typed after the file name.
func (d *Decryptor) Retrieve(ctx context.Context, src fetch.Source, name string, progress chan<- Progress) (*sink.Artifact, error) {
	log := d.log.With("file", name)
	started := time.Now()

	text, err := src.Fetch(ctx, name, func(done, total int64) {
		notify(progress, Progress{Stage: StageFetching, Done: done, Total: total})
	})
	if err != nil {
		log.Error(ctx, "fetch failed", "kind", common.KindOf(err).String(), "error", err)
		return nil, err
	}

	plaintext, err := d.DecryptText(ctx, text, progress)
	if err != nil {
		log.Error(ctx, "decryption failed", "kind", common.KindOf(err).String(), "error", err)
		return nil, err
	}

	category, mimeType := classify.Classify(name)
	a := sink.NewArtifact(name, plaintext, mimeType, category)

	if sniffed, mismatch := a.SniffMismatch(); mismatch {
		log.Warn(ctx, "content does not match file extension", "expected", mimeType, "detected", sniffed)
	}

	log.Info(ctx, "file decrypted",
		"bytes", a.Size(), "mime", a.MimeType, "category", string(a.Category),
		"elapsed", time.Since(started))
	return a, nil
}
