package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names what happened. Values are stable and appear in storage.
type Action string

const (
	ActionUserRegistrationSubmitted Action = "user_registration_submitted"
	ActionLandRecordSubmitted       Action = "land_record_submitted"
	ActionUserVerified              Action = "user_verified"
	ActionTransactionFailed         Action = "transaction_failed"
)

// Event is emitted from domain logic to capture terminal ledger outcomes.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Action    Action

	// Actor is the ledger account that signed; Subject is the account acted on.
	Actor     string
	Subject   string
	Kind      string
	RecordID  string
	TxID      string
	Status    string
	ErrorKind string
	Reason    string
	RequestID string
}
