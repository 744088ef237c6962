// Package fetch retrieves file listings and encrypted payloads from the file
// server, either over its HTTP API or straight from the S3 bucket backing it.
//
// A Source only moves bytes: payloads are returned in their base64 transport
// form and decrypted by the pipeline package.
package fetch

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/netx"
)

// FileDescriptor describes one remote file. Name is unique per listing.
type FileDescriptor struct {
	Name       string
	Size       int64
	UploadDate time.Time
	Category   classify.Category
}

func newDescriptor(name string, size int64, uploaded time.Time) FileDescriptor {
	return FileDescriptor{
		Name:       name,
		Size:       size,
		UploadDate: uploaded,
		Category:   classify.CategoryOf(name),
	}
}

// Source is a place encrypted files can be listed and fetched from.
type Source interface {
	List(ctx context.Context) ([]FileDescriptor, error)
	// Fetch returns the base64 transport text of the named file.
	Fetch(ctx context.Context, name string, progress netx.ProgressFunc) (string, error)
}
