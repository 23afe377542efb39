package httptransport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"chainregistry/internal/audit"
	"chainregistry/internal/documents"
	docmemory "chainregistry/internal/documents/store/memory"
	"chainregistry/internal/ledger"
	"chainregistry/internal/platform/metrics"
	"chainregistry/internal/registration"
	"chainregistry/internal/transaction"
	"chainregistry/internal/transport/http/mocks"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
	"chainregistry/pkg/platform/middleware/verifier"
	"chainregistry/pkg/testutil"
)

const (
	verifierToken = "verifier-secret"
	userAddr      = "0x00000000000000000000000000000000000000a1"
)

type HandlerSuite struct {
	suite.Suite
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

type fixture struct {
	router    http.Handler
	workflow  *mocks.MockRegistrationService
	session   *mocks.MockSessionService
	audit     *mocks.MockAuditReader
	documents *documents.Store
}

func (s *HandlerSuite) newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	docs, err := documents.New(docmemory.New(), documents.WithLogger(logger))
	require.NoError(t, err)

	f := &fixture{
		workflow:  mocks.NewMockRegistrationService(ctrl),
		session:   mocks.NewMockSessionService(ctrl),
		audit:     mocks.NewMockAuditReader(ctrl),
		documents: docs,
	}
	f.router = NewRouter(RouterConfig{
		Logger:        logger,
		Metrics:       metrics.NewWith(prometheus.NewRegistry()),
		VerifierToken: verifierToken,
		Registration:  NewRegistrationHandler(f.workflow, logger),
		Documents:     NewDocumentHandler(docs, logger),
		Session:       NewSessionHandler(f.session, logger),
		Audit:         NewAuditHandler(f.audit, logger),
		Health: map[string]HealthCheck{
			"ledger": func(context.Context) error { return nil },
		},
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, verifierAuth bool) *httptest.ResponseRecorder {
	t.Helper()
	var payload any
	if body != "" {
		payload = body
	}
	req := testutil.NewJSONRequest(t, method, path, payload)
	if verifierAuth {
		req.Header.Set(verifier.HeaderToken, verifierToken)
	}
	return testutil.DoRequest(f.router, req)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return testutil.DecodeJSON(t, rec)
}

func confirmedRecord(kind transaction.Kind) *transaction.Record {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &transaction.Record{
		ID:          domain.NewRecordID(),
		Kind:        kind,
		Status:      transaction.StatusConfirmed,
		LedgerTxID:  "0xabc",
		BlockNumber: 42,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *HandlerSuite) TestRegisterUser() {
	aadhar := []byte("%PDF-1.4 aadhar")
	pan := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	payload, _ := json.Marshal(map[string]any{
		"name":   "  Asha  ",
		"age":    31,
		"city":   "Pune",
		"phone":  "+919876543210",
		"email":  "asha@example.com",
		"aadhar": base64.StdEncoding.EncodeToString(aadhar),
		"pan":    base64.StdEncoding.EncodeToString(pan),
	})

	s.T().Run("confirmed registration returns hashes and attestation - 200", func(t *testing.T) {
		f := s.newFixture(t)
		rec := confirmedRecord(transaction.KindRegisterUser)
		f.workflow.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req registration.RegisterUserRequest) (*registration.RegisterUserResult, error) {
				assert.Equal(t, "Asha", req.Name)
				assert.Equal(t, aadhar, req.Aadhar)
				assert.Equal(t, pan, req.PAN)
				return &registration.RegisterUserResult{
					AadharHash:  domain.ContentHash(strings.Repeat("a", 64)),
					PANHash:     domain.ContentHash(strings.Repeat("b", 64)),
					Attestation: registration.Attestation{Message: "I confirm", Signature: "0xsig"},
					Record:      rec,
				}, nil
			})

		resp := f.do(t, http.MethodPost, "/users/register", string(payload), false)

		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, strings.Repeat("a", 64), body["aadhar_hash"])
		assert.Equal(t, "0xsig", body["attestation"].(map[string]any)["signature"])
		assert.Equal(t, "confirmed", body["transaction"].(map[string]any)["status"])
		assert.Equal(t, "success", body["notification"].(map[string]any)["severity"])
		assert.NotContains(t, body, "error")
	})

	s.T().Run("confirmation timeout keeps the record and warns not to retry - 504", func(t *testing.T) {
		f := s.newFixture(t)
		rec := confirmedRecord(transaction.KindRegisterUser)
		rec.Status = transaction.StatusFailed
		rec.Error = dErrors.CodeConfirmationTimeout
		f.workflow.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(
			&registration.RegisterUserResult{Record: rec},
			dErrors.New(dErrors.CodeConfirmationTimeout, "transaction not confirmed in time"),
		)

		resp := f.do(t, http.MethodPost, "/users/register", string(payload), false)

		require.Equal(t, http.StatusGatewayTimeout, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "confirmation_timeout", body["error"])
		assert.Equal(t, false, body["notification"].(map[string]any)["safe_to_retry"])
		assert.Equal(t, "0xabc", body["transaction"].(map[string]any)["ledger_tx_id"])
	})

	s.T().Run("invalid body never reaches the workflow - 400", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Times(0)

		resp := f.do(t, http.MethodPost, "/users/register", `{"name":"x","age":0}`, false)

		testutil.AssertStatusAndError(t, resp, http.StatusBadRequest, "invalid_input")
	})

	s.T().Run("non json content type - 415", func(t *testing.T) {
		f := s.newFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "text/plain")
		rec := testutil.DoRequest(f.router, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func (s *HandlerSuite) TestAddLand() {
	body := `{"coordinates":["18.52","73.85"],"area":"1200","address":"Plot 4","price":"500000","parcel_id":"77","survey_number":"S-12","land_type":"agricultural"}`

	s.T().Run("confirmed - 200", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().AddLand(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req registration.AddLandRequest) (*transaction.Record, error) {
				assert.Equal(t, []string{"18.52", "73.85"}, req.Coordinates)
				return confirmedRecord(transaction.KindAddLand), nil
			})

		resp := f.do(t, http.MethodPost, "/land", body, false)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "addLand", decodeBody(t, resp)["transaction"].(map[string]any)["kind"])
	})

	s.T().Run("wallet declined - 409 and safe to retry", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().AddLand(gomock.Any(), gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeUserRejected, "signature request declined"))

		resp := f.do(t, http.MethodPost, "/land", body, false)

		require.Equal(t, http.StatusConflict, resp.Code)
		got := decodeBody(t, resp)
		assert.Equal(t, "user_rejected", got["error"])
		assert.Equal(t, true, got["notification"].(map[string]any)["safe_to_retry"])
		assert.NotContains(t, got, "transaction")
	})
}

func (s *HandlerSuite) TestVerifierRoutes() {
	s.T().Run("missing token - 401", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().ListUnverified(gomock.Any()).Times(0)

		resp := f.do(t, http.MethodGet, "/verifier/users/unverified", "", false)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	s.T().Run("lists pending users", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().ListUnverified(gomock.Any()).Return(seq(
			registration.VerificationEntry{Address: userAddr},
		))

		resp := f.do(t, http.MethodGet, "/verifier/users/unverified", "", true)

		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, []any{userAddr}, body["users"])
		assert.Equal(t, false, body["empty"])
	})

	s.T().Run("empty list is flagged", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().ListUnverified(gomock.Any()).Return(seq())

		resp := f.do(t, http.MethodGet, "/verifier/users/unverified", "", true)

		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, []any{}, body["users"])
		assert.Equal(t, true, body["empty"])
	})

	s.T().Run("list failure maps to its code", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().ListUnverified(gomock.Any()).Return(
			func(yield func(registration.VerificationEntry, error) bool) {
				yield(registration.VerificationEntry{}, dErrors.New(dErrors.CodeNotConnected, "connect a wallet first"))
			})

		resp := f.do(t, http.MethodGet, "/verifier/users/unverified", "", true)

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	s.T().Run("verify passes the path address", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().VerifyUser(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req registration.VerifyRequest) (*transaction.Record, error) {
				assert.Equal(t, domain.Address(userAddr), req.ParsedAddress())
				return confirmedRecord(transaction.KindVerifyUser), nil
			})

		resp := f.do(t, http.MethodPost, "/verifier/users/"+userAddr+"/verify", "", true)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	s.T().Run("verify rejects the zero address", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().VerifyUser(gomock.Any(), gomock.Any()).Times(0)

		resp := f.do(t, http.MethodPost, "/verifier/users/"+string(domain.SentinelAddress)+"/verify", "", true)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	s.T().Run("user detail", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().User(gomock.Any(), domain.Address(userAddr)).Return(&registration.UserRecord{
			Address: userAddr,
			Name:    "Asha",
			Age:     31,
		}, nil)

		resp := f.do(t, http.MethodGet, "/verifier/users/"+userAddr, "", true)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "Asha", decodeBody(t, resp)["name"])
	})

	s.T().Run("unknown user - 404", func(t *testing.T) {
		f := s.newFixture(t)
		f.workflow.EXPECT().User(gomock.Any(), gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeNotFound, "no user registered"))

		resp := f.do(t, http.MethodGet, "/verifier/users/"+userAddr, "", true)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func (s *HandlerSuite) TestDocuments() {
	s.T().Run("retrieve, view raw bytes and release", func(t *testing.T) {
		f := s.newFixture(t)
		raw := []byte("%PDF-1.7 deed")
		hash, err := f.documents.Stage(context.Background(), raw)
		require.NoError(t, err)

		resp := f.do(t, http.MethodGet, "/verifier/documents/"+hash.String(), "", true)
		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "pdf", body["mime"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(raw), body["payload"])

		resp = f.do(t, http.MethodGet, "/verifier/documents/"+hash.String()+"/raw", "", true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
		assert.NotEmpty(t, resp.Header().Get(HeaderViewID))
		assert.Equal(t, raw, resp.Body.Bytes())

		resp = f.do(t, http.MethodDelete, "/verifier/documents/"+hash.String()+"/views", "", true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, float64(1), decodeBody(t, resp)["released"])
	})

	s.T().Run("image scan is served with its concrete type", func(t *testing.T) {
		f := s.newFixture(t)
		scan := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
		hash, err := f.documents.Stage(context.Background(), scan)
		require.NoError(t, err)

		resp := f.do(t, http.MethodGet, "/verifier/documents/"+hash.String(), "", true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "image/jpeg", decodeBody(t, resp)["content_type"])

		resp = f.do(t, http.MethodGet, "/verifier/documents/"+hash.String()+"/raw", "", true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "image/jpeg", resp.Header().Get("Content-Type"))
	})

	s.T().Run("unknown hash - 404", func(t *testing.T) {
		f := s.newFixture(t)
		resp := f.do(t, http.MethodGet, "/verifier/documents/"+strings.Repeat("0", 64), "", true)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func (s *HandlerSuite) TestSession() {
	s.T().Run("connect reports the account and balance", func(t *testing.T) {
		f := s.newFixture(t)
		sess := ledger.Session{
			WalletPresent:  true,
			Connected:      true,
			AccountAddress: userAddr,
			Balance:        new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)),
		}
		f.session.EXPECT().Connect(gomock.Any()).Return(sess, nil)
		f.session.EXPECT().State().Return(ledger.StateConnected)

		resp := f.do(t, http.MethodPost, "/session/connect", "", false)

		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "connected", body["state"])
		assert.Equal(t, "1.5", body["balance"])
		assert.Equal(t, userAddr, body["account_address"])
	})

	s.T().Run("no wallet - 503", func(t *testing.T) {
		f := s.newFixture(t)
		f.session.EXPECT().Connect(gomock.Any()).Return(ledger.Session{},
			dErrors.New(dErrors.CodeWalletUnavailable, "no wallet available"))

		resp := f.do(t, http.MethodPost, "/session/connect", "", false)

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
		assert.Equal(t, "wallet_unavailable", decodeBody(t, resp)["error"])
	})

	s.T().Run("disconnect", func(t *testing.T) {
		f := s.newFixture(t)
		f.session.EXPECT().Disconnect()

		resp := f.do(t, http.MethodPost, "/session/disconnect", "", false)

		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	s.T().Run("snapshot", func(t *testing.T) {
		f := s.newFixture(t)
		f.session.EXPECT().State().Return(ledger.StateDisconnected)
		f.session.EXPECT().Snapshot().Return(ledger.Session{WalletPresent: true})

		resp := f.do(t, http.MethodGet, "/session", "", false)

		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "disconnected", body["state"])
		assert.NotContains(t, body, "account_address")
	})
}

func (s *HandlerSuite) TestAudit() {
	s.T().Run("lists recent events", func(t *testing.T) {
		f := s.newFixture(t)
		f.audit.EXPECT().ListRecent(gomock.Any(), 10).Return([]audit.Event{
			{Action: audit.ActionUserVerified, Subject: userAddr, Status: "confirmed"},
		}, nil)

		resp := f.do(t, http.MethodGet, "/verifier/audit?limit=10", "", true)

		require.Equal(t, http.StatusOK, resp.Code)
		events := decodeBody(t, resp)["events"].([]any)
		require.Len(t, events, 1)
		assert.Equal(t, "user_verified", events[0].(map[string]any)["action"])
	})

	s.T().Run("bad limit - 400", func(t *testing.T) {
		f := s.newFixture(t)
		f.audit.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Times(0)

		resp := f.do(t, http.MethodGet, "/verifier/audit?limit=0", "", true)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	s.T().Run("store failure hides details - 500", func(t *testing.T) {
		f := s.newFixture(t)
		f.audit.EXPECT().ListRecent(gomock.Any(), defaultAuditLimit).Return(nil, errors.New("pq: connection refused"))

		resp := f.do(t, http.MethodGet, "/verifier/audit", "", true)

		require.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.NotContains(t, decodeBody(t, resp), "error_description")
	})
}

func (s *HandlerSuite) TestHealthAndRequestID() {
	f := s.newFixture(s.T())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("req-123", rec.Header().Get("X-Request-ID"))
	s.Equal("ok", decodeBody(s.T(), rec)["ledger"])
}

func seq(entries ...registration.VerificationEntry) iter.Seq2[registration.VerificationEntry, error] {
	return func(yield func(registration.VerificationEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}
