package httptransport

import (
	"net/http"
	"time"

	"chainregistry/internal/documents"
	"chainregistry/internal/ledger"
	"chainregistry/internal/registration"
	"chainregistry/internal/transaction"
	dErrors "chainregistry/pkg/domain-errors"
	"chainregistry/pkg/platform/httputil"
)

// recordResponse omits the submitted arguments; registration arguments carry
// contact details.
type recordResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	LedgerTxID  string    `json:"ledger_tx_id,omitempty"`
	BlockNumber uint64    `json:"block_number,omitempty"`
	Error       string    `json:"error,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	SafeToRetry bool      `json:"safe_to_retry"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRecordResponse(rec *transaction.Record) *recordResponse {
	if rec == nil {
		return nil
	}
	return &recordResponse{
		ID:          rec.ID.String(),
		Kind:        rec.Kind.String(),
		Status:      string(rec.Status),
		LedgerTxID:  rec.LedgerTxID,
		BlockNumber: rec.BlockNumber,
		Error:       string(rec.Error),
		Reason:      rec.Reason,
		SafeToRetry: rec.SafeToRetry(),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

// outcomeResponse is the body of every workflow call, successful or not.
type outcomeResponse struct {
	Error            string                    `json:"error,omitempty"`
	ErrorDescription string                    `json:"error_description,omitempty"`
	Notification     registration.Notification `json:"notification"`
	Transaction      *recordResponse           `json:"transaction,omitempty"`
}

type attestationResponse struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type registerUserResponse struct {
	outcomeResponse
	AadharHash  string               `json:"aadhar_hash,omitempty"`
	PANHash     string               `json:"pan_hash,omitempty"`
	Attestation *attestationResponse `json:"attestation,omitempty"`
}

type unverifiedResponse struct {
	Users []string `json:"users"`
	Empty bool     `json:"empty"`
}

type userResponse struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	Age        uint64 `json:"age"`
	City       string `json:"city"`
	AadharHash string `json:"aadhar_hash"`
	PANHash    string `json:"pan_hash"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
}

func toUserResponse(u *registration.UserRecord) userResponse {
	return userResponse{
		Address:    u.Address.String(),
		Name:       u.Name,
		Age:        u.Age,
		City:       u.City,
		AadharHash: u.AadharHash,
		PANHash:    u.PANHash,
		Phone:      u.Phone,
		Email:      u.Email,
		Verified:   u.Verified,
	}
}

type sessionResponse struct {
	State          string `json:"state"`
	WalletPresent  bool   `json:"wallet_present"`
	Connected      bool   `json:"connected"`
	AccountAddress string `json:"account_address,omitempty"`
	Balance        string `json:"balance,omitempty"`
}

func toSessionResponse(state ledger.State, s ledger.Session) sessionResponse {
	return sessionResponse{
		State:          string(state),
		WalletPresent:  s.WalletPresent,
		Connected:      s.Connected,
		AccountAddress: s.AccountAddress.String(),
		Balance:        s.FormattedBalance(),
	}
}

type documentResponse struct {
	ContentHash string             `json:"content_hash"`
	Mime        documents.MimeHint `json:"mime"`
	ContentType string             `json:"content_type"`
	Payload     string             `json:"payload"`
}

// outcome fills the error half of an outcomeResponse and returns the status
// to send. A nil err is a 200.
func outcome(err error, rec *transaction.Record) (int, outcomeResponse) {
	body := outcomeResponse{
		Notification: registration.Describe(err),
		Transaction:  toRecordResponse(rec),
	}
	if err == nil {
		return http.StatusOK, body
	}
	code := dErrors.CodeOf(err)
	body.Error = string(code)
	if de, ok := dErrors.From(err); ok && code != dErrors.CodeInternal {
		body.ErrorDescription = de.Message
	}
	return httputil.StatusFor(code), body
}
