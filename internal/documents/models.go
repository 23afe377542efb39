// Package documents is the local, content-addressed attachment store. Files are
// stored base64 encoded under the SHA-256 of that encoding; the ledger only ever
// sees the key.
package documents

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"chainregistry/pkg/domain"
)

// MimeHint is the best-effort classification of a staged payload.
type MimeHint string

const (
	MimeImage   MimeHint = "image"
	MimePDF     MimeHint = "pdf"
	MimeUnknown MimeHint = "unknown"
)

const contentTypeBinary = "application/octet-stream"

// ContentType is the response header for data classified as m. Images get
// their concrete subtype from the bytes; anything unrecognised is served as
// opaque binary.
func (m MimeHint) ContentType(data []byte) string {
	switch m {
	case MimePDF:
		return "application/pdf"
	case MimeImage:
		if detected := http.DetectContentType(data); strings.HasPrefix(detected, "image/") {
			return detected
		}
		return contentTypeBinary
	default:
		return contentTypeBinary
	}
}

// Document is a staged payload as returned by Retrieve.
type Document struct {
	Hash    domain.ContentHash `json:"content_hash"`
	Mime    MimeHint           `json:"mime"`
	Payload string             `json:"payload"`
}

// ContentType is the header the decoded payload would be served with.
func (d *Document) ContentType() string {
	raw, err := base64.StdEncoding.DecodeString(d.Payload)
	if err != nil {
		return contentTypeBinary
	}
	return d.Mime.ContentType(raw)
}

// Backend persists base64 payloads under their content hash. Implementations
// must never return a payload for a key other than the one requested and must
// treat SaveIfAbsent as a no-op when the key already exists.
type Backend interface {
	// SaveIfAbsent stores payload under hash and reports whether it was written.
	SaveIfAbsent(ctx context.Context, hash domain.ContentHash, payload string) (bool, error)

	// Load returns the payload or sentinel.ErrNotFound.
	Load(ctx context.Context, hash domain.ContentHash) (string, error)

	// Count returns the number of stored payloads.
	Count(ctx context.Context) (int, error)
}
