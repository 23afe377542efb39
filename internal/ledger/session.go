package ledger

import (
	"context"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"chainregistry/internal/platform/metrics"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

// State is the connection state of the session.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Session is a snapshot of the connection. AccountAddress and Contract are
// either both set or both empty; Connected implies both are set.
type Session struct {
	WalletPresent  bool
	Connected      bool
	AccountAddress domain.Address
	Contract       Contract
	// Balance is best-effort and nil when it could not be read.
	Balance *big.Int
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormattedBalance renders Balance as a decimal ether amount, or "" when unknown.
func (s Session) FormattedBalance() string {
	if s.Balance == nil {
		return ""
	}
	out := new(big.Rat).SetFrac(s.Balance, weiPerEther).FloatString(18)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}

// DefaultConnectTimeout bounds one shared connect attempt, wallet prompt
// included.
const DefaultConnectTimeout = 2 * time.Minute

// Manager owns the single process-wide Session.
type Manager struct {
	provider       Provider
	logger         *slog.Logger
	metrics        *metrics.Metrics
	connectTimeout time.Duration

	connectGroup singleflight.Group

	mu      sync.RWMutex
	state   State
	session Session
	epoch   uint64
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithConnectTimeout bounds a connect attempt independently of its callers.
func WithConnectTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.connectTimeout = d
		}
	}
}

// NewManager builds a disconnected session manager. A nil provider models a
// host without any wallet installed.
func NewManager(provider Provider, opts ...Option) *Manager {
	m := &Manager{
		provider:       provider,
		logger:         slog.Default(),
		connectTimeout: DefaultConnectTimeout,
		state:          StateDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.session.WalletPresent = m.walletPresent()
	return m
}

func (m *Manager) walletPresent() bool {
	return m.provider != nil && m.provider.Available()
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Connect requests account access, binds the contract to the returned signer
// and reads its balance. Concurrent callers share a single attempt that runs
// detached from any one caller and is bounded by the connect timeout. A caller
// whose ctx ends first gives up with user_rejected; the attempt carries on for
// the others. On failure the session is left disconnected with no account or
// contract.
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	results := m.connectGroup.DoChan("connect", func() (any, error) {
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.connectTimeout)
		defer cancel()
		return m.connect(attemptCtx)
	})

	select {
	case res := <-results:
		if res.Shared {
			m.logger.DebugContext(ctx, "joined in-flight ledger connect")
		}
		sess, _ := res.Val.(Session)
		return sess, res.Err
	case <-ctx.Done():
		return m.Snapshot(), dErrors.Wrap(ctx.Err(), dErrors.CodeUserRejected, "connect was abandoned")
	}
}

func (m *Manager) connect(ctx context.Context) (Session, error) {
	m.mu.Lock()
	if m.state == StateConnected {
		sess := m.session
		m.mu.Unlock()
		return sess, nil
	}
	m.state = StateConnecting
	epoch := m.epoch
	m.mu.Unlock()

	if !m.walletPresent() {
		return m.fail(ctx, false, dErrors.New(dErrors.CodeWalletUnavailable, "no wallet provider detected"))
	}

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		return m.fail(ctx, true, classify(err, dErrors.CodeUserRejected, "account access was not granted"))
	}
	if len(accounts) == 0 {
		return m.fail(ctx, true, dErrors.New(dErrors.CodeUserRejected, "wallet shared no accounts"))
	}
	account := accounts[0]

	contract, err := m.provider.Bind(ctx, account)
	if err != nil {
		return m.fail(ctx, true, classify(err, dErrors.CodeWalletUnavailable, "failed to bind registry contract"))
	}

	balance, err := m.provider.Balance(ctx, account)
	if err != nil {
		m.logger.WarnContext(ctx, "balance lookup failed; continuing without balance",
			"address", account,
			"error", err,
		)
		balance = nil
	}

	m.mu.Lock()
	if m.epoch != epoch {
		// Disconnect or provider removal raced this attempt.
		m.mu.Unlock()
		return m.fail(ctx, m.walletPresent(), dErrors.New(dErrors.CodeNotConnected, "session was disconnected while connecting"))
	}
	m.state = StateConnected
	m.session = Session{
		WalletPresent:  true,
		Connected:      true,
		AccountAddress: account,
		Contract:       contract,
		Balance:        balance,
	}
	sess := m.session
	m.mu.Unlock()

	m.metrics.ObserveConnect("connected", true)
	m.logger.InfoContext(ctx, "ledger session connected",
		"address", account,
		"balance", sess.FormattedBalance(),
	)
	return sess, nil
}

func (m *Manager) fail(ctx context.Context, walletPresent bool, err error) (Session, error) {
	m.mu.Lock()
	m.state = StateDisconnected
	m.session = Session{WalletPresent: walletPresent}
	sess := m.session
	m.mu.Unlock()

	m.metrics.ObserveConnect(string(dErrors.CodeOf(err)), false)
	m.logger.WarnContext(ctx, "ledger connect failed", "error", err)
	return sess, err
}

// Disconnect clears the account and contract handle.
func (m *Manager) Disconnect() {
	m.reset(m.walletPresent())
	m.logger.Info("ledger session disconnected")
}

// ProviderRemoved records that the wallet went away and disconnects.
func (m *Manager) ProviderRemoved() {
	m.reset(false)
	m.logger.Warn("wallet provider removed; session disconnected")
}

func (m *Manager) reset(walletPresent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.state = StateDisconnected
	m.session = Session{WalletPresent: walletPresent}
	m.metrics.ObserveConnect("disconnected", false)
}

// Contract returns the bound contract handle or a not_connected error.
func (m *Manager) Contract() (Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Connected || m.session.Contract == nil {
		return nil, dErrors.New(dErrors.CodeNotConnected, "no ledger session is connected")
	}
	return m.session.Contract, nil
}

// Account returns the connected account or a not_connected error.
func (m *Manager) Account() (domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Connected {
		return "", dErrors.New(dErrors.CodeNotConnected, "no ledger session is connected")
	}
	return m.session.AccountAddress, nil
}

// SignMessage asks the connected account to sign text. It is used for the
// attestation that accompanies a registration.
func (m *Manager) SignMessage(ctx context.Context, text string) (string, error) {
	account, err := m.Account()
	if err != nil {
		return "", err
	}
	sig, err := m.provider.SignMessage(ctx, account, text)
	if err != nil {
		return "", classify(err, dErrors.CodeUserRejected, "signature request was declined")
	}
	return sig, nil
}

// classify keeps an existing code and otherwise applies fallback.
func classify(err error, fallback dErrors.Code, msg string) error {
	if _, ok := dErrors.From(err); ok {
		return err
	}
	return dErrors.Wrap(err, fallback, msg)
}
