package ethereum

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"chainregistry/pkg/domain"
)

const (
	ActionConnect  = "connect"
	ActionSign     = "sign"
	ActionTransact = "transact"
)

// Prompt describes what the wallet is being asked to approve.
type Prompt struct {
	Account domain.Address
	Action  string
	Detail  string
}

// Approver decides a wallet prompt. A non-nil error is a rejection.
type Approver func(ctx context.Context, p Prompt) error

// AutoApprove accepts every prompt. It is the default for headless servers.
func AutoApprove(ctx context.Context, _ Prompt) error {
	return ctx.Err()
}

// ErrDeclined is returned by TerminalApprover when the answer is not yes.
var ErrDeclined = errors.New("declined at prompt")

// TerminalApprover asks on out and reads a y/N answer from in.
func TerminalApprover(in io.Reader, out io.Writer) Approver {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, p Prompt) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Detail != "" {
			fmt.Fprintf(out, "%s as %s:\n  %s\nApprove? [y/N] ", p.Action, p.Account, p.Detail)
		} else {
			fmt.Fprintf(out, "%s as %s\nApprove? [y/N] ", p.Action, p.Account)
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return ErrDeclined
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		}
		return ErrDeclined
	}
}
