// Package ledger owns the connection to the wallet provider and the bound
// registry contract. Nothing outside this package mutates the session.
package ledger

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider,Contract

import (
	"context"
	"math/big"

	"chainregistry/pkg/domain"
)

// Provider is the wallet capability supplied from outside: account access,
// message signing, balance queries and contract binding. Implementations
// report a declined prompt with dErrors.CodeUserRejected.
type Provider interface {
	// Available reports whether a wallet is present at all.
	Available() bool

	// RequestAccounts asks the wallet for account access.
	RequestAccounts(ctx context.Context) ([]domain.Address, error)

	// SignMessage produces an off-ledger signature over message.
	SignMessage(ctx context.Context, account domain.Address, message string) (string, error)

	// Balance returns the account's native balance in the smallest unit.
	Balance(ctx context.Context, account domain.Address) (*big.Int, error)

	// Bind returns a contract handle whose transactions are signed by account.
	Bind(ctx context.Context, account domain.Address) (Contract, error)
}

// Contract is a bound handle on the remote registry contract.
type Contract interface {
	// Transact signs and broadcasts a call to method and returns the
	// submitted transaction identifier.
	Transact(ctx context.Context, method string, args ...any) (string, error)

	// Receipt reports inclusion of txID. A nil receipt with a nil error means
	// the transaction is not yet included.
	Receipt(ctx context.Context, txID string) (*Receipt, error)

	// Call performs a read-only call and returns the decoded outputs.
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}

// Receipt is the inclusion result of a broadcast transaction.
type Receipt struct {
	TxID        string
	BlockNumber uint64
	Reverted    bool
}
