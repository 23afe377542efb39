package registration

import (
	"chainregistry/internal/transaction"
	"chainregistry/pkg/domain"
)

// VerificationEntry is one pending user. Sentinel entries never leave
// ListUnverified; IsSentinel is kept for callers decoding raw lists.
type VerificationEntry struct {
	Address    domain.Address
	IsSentinel bool
}

// UserRecord is the ledger's view of a registered user.
type UserRecord struct {
	Address    domain.Address
	Name       string
	Age        uint64
	City       string
	AadharHash string
	PANHash    string
	Phone      string
	Email      string
	Verified   bool
}

// Attestation is the signed statement accompanying a registration.
type Attestation struct {
	Message   string
	Signature string
}

// RegisterUserResult reports how far a registration got. Hashes are set once
// staging succeeded; Record once a transaction was attempted.
type RegisterUserResult struct {
	AadharHash  domain.ContentHash
	PANHash     domain.ContentHash
	Attestation Attestation
	Record      *transaction.Record
}
