package transaction

import (
	"time"

	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

// Kind names the mutating contract method a task submits.
type Kind string

const (
	KindRegisterUser Kind = "registerUser"
	KindAddLand      Kind = "addLand"
	KindVerifyUser   Kind = "verifyUser"
)

var methodArity = map[Kind]int{
	KindRegisterUser: 7,
	KindAddLand:      7,
	KindVerifyUser:   1,
}

// IsValid reports whether k is a known mutating method.
func (k Kind) IsValid() bool {
	_, ok := methodArity[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// Status is a step in the transaction lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSigning   Status = "signing"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

var allowedTransitions = map[Status][]Status{
	StatusIdle:    {StatusSigning},
	StatusSigning: {StatusPending, StatusFailed},
	StatusPending: {StatusConfirmed, StatusFailed},
}

func canTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Record is the observable state of one submission. LedgerTxID is set from
// Pending onward; Error and Reason are set only when Status is Failed.
type Record struct {
	ID          domain.RecordID
	Kind        Kind
	Status      Status
	Arguments   []any
	LedgerTxID  string
	BlockNumber uint64
	Error       dErrors.Code
	Reason      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SafeToRetry reports whether a failed record left the ledger untouched.
func (r Record) SafeToRetry() bool {
	return r.Status == StatusFailed && dErrors.SafeToRetry(r.Error)
}

func (r Record) clone() Record {
	out := r
	out.Arguments = append([]any(nil), r.Arguments...)
	return out
}

// Transition is delivered to subscribers on every status change.
type Transition struct {
	From   Status
	To     Status
	Record Record
}
