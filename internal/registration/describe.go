package registration

import (
	dErrors "chainregistry/pkg/domain-errors"
)

// Severity of a Notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is the user-facing outcome of a workflow call. SafeToRetry is
// false only when a transaction may still land on the ledger.
type Notification struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	SafeToRetry bool     `json:"safe_to_retry"`
}

// Describe turns a workflow error into a notification. A nil error describes
// a confirmed transaction.
func Describe(err error) Notification {
	if err == nil {
		return Notification{
			Severity:    SeveritySuccess,
			Title:       "Confirmed",
			Message:     "The transaction was included in the ledger.",
			SafeToRetry: true,
		}
	}
	code := dErrors.CodeOf(err)
	n := Notification{Severity: SeverityError, SafeToRetry: dErrors.SafeToRetry(code)}
	switch code {
	case dErrors.CodeConfirmationTimeout:
		n.Severity = SeverityWarning
		n.Title = "Submitted but not confirmed"
		n.Message = "The transaction was broadcast but not yet included. Check its status before trying again."
	case dErrors.CodeUserRejected:
		n.Severity = SeverityWarning
		n.Title = "Request cancelled"
		n.Message = "The wallet request was declined. Nothing was sent to the ledger."
	case dErrors.CodeWalletUnavailable:
		n.Title = "No wallet"
		n.Message = "No wallet is available. Install or configure one and connect."
	case dErrors.CodeNotConnected:
		n.Title = "Not connected"
		n.Message = "Connect your wallet before submitting."
	case dErrors.CodeSubmissionFailed:
		n.Title = "Submission failed"
		n.Message = "The ledger did not accept the transaction. Nothing was recorded."
	case dErrors.CodeReverted:
		n.Title = "Rejected by the registry"
		n.Message = "The registry contract reverted the transaction. Nothing was recorded."
	case dErrors.CodeMalformed:
		n.Title = "Unreadable document"
		n.Message = detail(err, "A document could not be accepted.")
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		n.Title = "Check your input"
		n.Message = detail(err, "Some fields are invalid.")
	case dErrors.CodeNotFound:
		n.Title = "Not found"
		n.Message = detail(err, "The requested item was not found.")
	default:
		n.Title = "Something went wrong"
		n.Message = "An unexpected error occurred. Please try again."
	}
	return n
}

func detail(err error, fallback string) string {
	if de, ok := dErrors.From(err); ok && de.Message != "" {
		return de.Message
	}
	return fallback
}
