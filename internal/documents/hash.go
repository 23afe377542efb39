package documents

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"chainregistry/pkg/domain"
)

var pdfMagic = []byte("%PDF-")

// Encode returns the canonical base64 form that is hashed and persisted.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// HashPayload digests the encoded payload text, not the raw bytes, so a key can
// be recomputed from what the backend holds.
func HashPayload(payload string) domain.ContentHash {
	sum := sha256.Sum256([]byte(payload))
	return domain.ContentHash(hex.EncodeToString(sum[:]))
}

// Sniff classifies an encoded payload from the prefix of its decoded bytes.
func Sniff(payload string) MimeHint {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return MimeUnknown
	}
	return sniffBytes(raw)
}

func sniffBytes(raw []byte) MimeHint {
	if bytes.HasPrefix(raw, pdfMagic) {
		return MimePDF
	}
	// Only images and PDFs are accepted at the edge.
	return MimeImage
}
