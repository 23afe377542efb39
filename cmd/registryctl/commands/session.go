package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Connect the wallet and show the account and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			sess := appCtx.Session.Snapshot()
			balance := sess.FormattedBalance()
			if balance == "" {
				balance = "unknown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balance: %s\n", balance)
			return nil
		},
	}
}
