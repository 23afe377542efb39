// Package domain holds the small value types shared across the registry:
// ledger account addresses, document content hashes and transaction record IDs.
// Parsing happens once at trust boundaries; past that point the types carry the
// guarantee.
package domain

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	dErrors "chainregistry/pkg/domain-errors"
)

// SentinelAddress is the all-zero account the ledger uses to pad fixed-size
// result sets.
const SentinelAddress Address = "0x0000000000000000000000000000000000000000"

// Address is a 20-byte ledger account in 0x-prefixed hex form.
type Address string

// ParseAddress validates a 0x-prefixed, 40 hex digit account address. Case is
// preserved so checksummed addresses round-trip.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if len(s) != 42 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex digits")
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex digits")
	}
	return Address("0x" + s[2:]), nil
}

func (a Address) String() string { return string(a) }

// IsSentinel reports whether a is the all-zero placeholder address.
func (a Address) IsSentinel() bool {
	return strings.EqualFold(string(a), string(SentinelAddress))
}

// Equal compares addresses case-insensitively.
func (a Address) Equal(b Address) bool {
	return strings.EqualFold(string(a), string(b))
}

// ContentHash is the lowercase hex SHA-256 digest identifying a staged document.
type ContentHash string

// ParseContentHash validates a 64 hex digit digest and normalises it to
// lowercase.
func ParseContentHash(s string) (ContentHash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "content hash must be 64 hex digits")
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "content hash must be 64 hex digits")
	}
	return ContentHash(s), nil
}

func (h ContentHash) String() string { return string(h) }

// Short returns the first ten characters, enough for notifications.
func (h ContentHash) Short() string {
	if len(h) <= 10 {
		return string(h)
	}
	return string(h[:10])
}

// RecordID identifies one transaction record for its whole lifecycle.
type RecordID uuid.UUID

func NewRecordID() RecordID { return RecordID(uuid.New()) }

// ParseRecordID parses a non-nil UUID.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return RecordID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid record id")
	}
	if u == uuid.Nil {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id must not be nil")
	}
	return RecordID(u), nil
}

func (id RecordID) String() string { return uuid.UUID(id).String() }

func (id RecordID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
