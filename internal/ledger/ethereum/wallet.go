// Package ethereum adapts a keyed go-ethereum signer into a ledger.Provider.
// The process holds the signing key; an Approver stands in for the wallet's
// confirmation prompt.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"chainregistry/internal/ledger"
	"chainregistry/internal/platform/config"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

//go:embed chainregistry.abi.json
var registryABI string

// Backend is the part of ethclient.Client the wallet relies on.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Wallet is a single-account ledger.Provider.
type Wallet struct {
	backend  Backend
	key      *ecdsa.PrivateKey
	address  domain.Address
	chainID  *big.Int
	contract common.Address
	abi      abi.ABI
	approve  Approver
	logger   *slog.Logger
}

type Option func(*Wallet)

func WithApprover(a Approver) Option {
	return func(w *Wallet) {
		if a != nil {
			w.approve = a
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Wallet) {
		w.logger = logger
	}
}

// Dial connects to cfg.RPCURL and builds a Wallet for cfg.SignerKey. A zero
// chain id is resolved from the node.
func Dial(ctx context.Context, cfg config.LedgerConfig, opts ...Option) (*Wallet, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("resolve chain id: %w", err)
		}
	}
	return New(client, cfg.SignerKey, cfg.ContractAddress, chainID, opts...)
}

// New builds a Wallet over an existing backend. backend may be nil for
// signing-only use; Available then reports false.
func New(backend Backend, signerKey, contractAddress string, chainID *big.Int, opts ...Option) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(signerKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	contractAddr, err := domain.ParseAddress(contractAddress)
	if err != nil {
		return nil, fmt.Errorf("parse contract address: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}
	if chainID == nil {
		chainID = big.NewInt(1)
	}

	w := &Wallet{
		backend:  backend,
		key:      key,
		address:  domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()),
		chainID:  chainID,
		contract: common.HexToAddress(contractAddr.String()),
		abi:      parsed,
		approve:  AutoApprove,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close releases the RPC connection when the backend holds one.
func (w *Wallet) Close() {
	if c, ok := w.backend.(interface{ Close() }); ok {
		c.Close()
	}
}

// Address is the account the wallet signs for.
func (w *Wallet) Address() domain.Address {
	return w.address
}

func (w *Wallet) Available() bool {
	return w != nil && w.key != nil && w.backend != nil
}

func (w *Wallet) RequestAccounts(ctx context.Context) ([]domain.Address, error) {
	if err := w.prompt(ctx, Prompt{Account: w.address, Action: ActionConnect}); err != nil {
		return nil, err
	}
	return []domain.Address{w.address}, nil
}

// SignMessage produces an EIP-191 personal signature with V in {27, 28}.
func (w *Wallet) SignMessage(ctx context.Context, account domain.Address, message string) (string, error) {
	if err := w.owns(account); err != nil {
		return "", err
	}
	if err := w.prompt(ctx, Prompt{Account: account, Action: ActionSign, Detail: message}); err != nil {
		return "", err
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), w.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

func (w *Wallet) Balance(ctx context.Context, account domain.Address) (*big.Int, error) {
	if w.backend == nil {
		return nil, dErrors.New(dErrors.CodeWalletUnavailable, "ledger backend is not configured")
	}
	return w.backend.BalanceAt(ctx, common.HexToAddress(account.String()), nil)
}

func (w *Wallet) Bind(_ context.Context, account domain.Address) (ledger.Contract, error) {
	if w.backend == nil {
		return nil, dErrors.New(dErrors.CodeWalletUnavailable, "ledger backend is not configured")
	}
	if err := w.owns(account); err != nil {
		return nil, err
	}
	return &boundContract{
		wallet:  w,
		account: account,
		bound:   bind.NewBoundContract(w.contract, w.abi, w.backend, w.backend, w.backend),
	}, nil
}

func (w *Wallet) owns(account domain.Address) error {
	if !w.address.Equal(account) {
		return dErrors.New(dErrors.CodeInvalidInput, "account is not managed by this wallet")
	}
	return nil
}

func (w *Wallet) prompt(ctx context.Context, p Prompt) error {
	if err := w.approve(ctx, p); err != nil {
		w.logger.InfoContext(ctx, "wallet prompt declined", "action", p.Action, "address", p.Account)
		if _, ok := dErrors.From(err); ok {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeUserRejected, "request declined in wallet")
	}
	return nil
}

type boundContract struct {
	wallet  *Wallet
	account domain.Address
	bound   *bind.BoundContract
}

func (c *boundContract) Transact(ctx context.Context, method string, args ...any) (string, error) {
	packed, err := c.wallet.packArgs(method, args)
	if err != nil {
		return "", err
	}
	if err := c.wallet.prompt(ctx, Prompt{
		Account: c.account,
		Action:  ActionTransact,
		Detail:  method,
	}); err != nil {
		return "", err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.wallet.key, c.wallet.chainID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSubmissionFailed, "failed to build transactor")
	}
	opts.Context = ctx

	tx, err := c.bound.Transact(opts, method, packed...)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSubmissionFailed, "ledger rejected the transaction")
	}
	return tx.Hash().Hex(), nil
}

func (c *boundContract) Receipt(ctx context.Context, txID string) (*ledger.Receipt, error) {
	raw, err := hexutil.Decode(txID)
	if err != nil || len(raw) != common.HashLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "transaction id must be a 32 byte hex hash")
	}
	receipt, err := c.wallet.backend.TransactionReceipt(ctx, common.BytesToHash(raw))
	if errors.Is(err, geth.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	return &ledger.Receipt{
		TxID:        txID,
		BlockNumber: block,
		Reverted:    receipt.Status == types.ReceiptStatusFailed,
	}, nil
}

func (c *boundContract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	packed, err := c.wallet.packArgs(method, args)
	if err != nil {
		return nil, err
	}
	var out []any
	opts := &bind.CallOpts{Context: ctx, From: common.HexToAddress(c.account.String())}
	if err := c.bound.Call(opts, &out, method, packed...); err != nil {
		return nil, err
	}
	return normalizeOutputs(out), nil
}

// packArgs converts domain values into the Go types the ABI encoder expects.
func (w *Wallet) packArgs(method string, args []any) ([]any, error) {
	m, ok := w.abi.Methods[method]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown contract method %q", method))
	}
	if len(args) != len(m.Inputs) {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("%s takes %d arguments, got %d", method, len(m.Inputs), len(args)))
	}
	out := make([]any, len(args))
	for i, in := range m.Inputs {
		v, err := convertArg(in.Type, args[i])
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput,
				fmt.Sprintf("argument %d of %s is invalid", i, method))
		}
		out[i] = v
	}
	return out, nil
}

func convertArg(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		if t.Size != 256 {
			return v, nil
		}
		switch n := v.(type) {
		case *big.Int:
			return n, nil
		case int:
			return big.NewInt(int64(n)), nil
		case int64:
			return big.NewInt(n), nil
		case uint64:
			return new(big.Int).SetUint64(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)
	case abi.AddressTy:
		switch a := v.(type) {
		case common.Address:
			return a, nil
		case domain.Address:
			return common.HexToAddress(a.String()), nil
		case string:
			parsed, err := domain.ParseAddress(a)
			if err != nil {
				return nil, err
			}
			return common.HexToAddress(parsed.String()), nil
		}
		return nil, fmt.Errorf("expected address, got %T", v)
	case abi.StringTy:
		switch s := v.(type) {
		case string:
			return s, nil
		case fmt.Stringer:
			return s.String(), nil
		}
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return v, nil
}

func normalizeOutputs(out []any) []any {
	for i, v := range out {
		switch x := v.(type) {
		case common.Address:
			out[i] = domain.Address(x.Hex())
		case []common.Address:
			addrs := make([]domain.Address, len(x))
			for j, a := range x {
				addrs[j] = domain.Address(a.Hex())
			}
			out[i] = addrs
		}
	}
	return out
}
