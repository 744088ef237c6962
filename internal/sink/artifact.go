// Package sink turns decrypted plaintext into consumable artifacts and hands
// out revocable handles for playback or download.
//
// A Handle is the address of one published artifact on the local artifact
// server (see Registry). Every handle must be revoked exactly once; Session
// enforces a single live handle per logical playback or download view.
package sink

import (
	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/gabriel-vasile/mimetype"
)

// Artifact is a fully decrypted file ready for a consumer.
type Artifact struct {
	Name     string
	Bytes    []byte
	MimeType string
	Category classify.Category
}

func NewArtifact(name string, data []byte, mimeType string, category classify.Category) *Artifact {
	if mimeType == "" {
		mimeType = classify.DefaultMimeType
	}
	if category == "" {
		category = classify.CategoryOther
	}
	return &Artifact{Name: name, Bytes: data, MimeType: mimeType, Category: category}
}

func (a *Artifact) Size() int { return len(a.Bytes) }

// Sniff detects the content type from the plaintext itself. The result is
// advisory; MimeType stays the value derived from the file name.
func (a *Artifact) Sniff() string {
	return mimetype.Detect(a.Bytes).String()
}

// SniffMismatch reports whether the sniffed type disagrees with MimeType.
// Generic results on either side never count as a mismatch.
func (a *Artifact) SniffMismatch() (string, bool) {
	detected := mimetype.Detect(a.Bytes)
	if a.MimeType == classify.DefaultMimeType || detected.Is(classify.DefaultMimeType) {
		return detected.String(), false
	}
	return detected.String(), !detected.Is(a.MimeType)
}
