package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chainregistry/internal/registration"
	"chainregistry/pkg/domain"
)

func unverifiedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unverified",
		Short: "List users waiting for verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := connect(cmd.Context(), out); err != nil {
				return err
			}
			n := 0
			for entry, err := range appCtx.Registration.ListUnverified(cmd.Context()) {
				if err != nil {
					return report(out, err)
				}
				fmt.Fprintln(out, entry.Address)
				n++
			}
			if n == 0 {
				fmt.Fprintln(out, "no users are waiting for verification")
			}
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <address>",
		Short: "Show a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			addr, err := domain.ParseAddress(args[0])
			if err != nil {
				return report(out, err)
			}
			if err := connect(cmd.Context(), out); err != nil {
				return err
			}
			u, err := appCtx.Registration.User(cmd.Context(), addr)
			if err != nil {
				return report(out, err)
			}
			printUser(cmd, u)
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, u *registration.UserRecord) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "address\t%s\n", u.Address)
	fmt.Fprintf(tw, "name\t%s\n", u.Name)
	fmt.Fprintf(tw, "age\t%d\n", u.Age)
	fmt.Fprintf(tw, "city\t%s\n", u.City)
	fmt.Fprintf(tw, "phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "aadhar\t%s\n", u.AadharHash)
	fmt.Fprintf(tw, "pan\t%s\n", u.PANHash)
	fmt.Fprintf(tw, "verified\t%t\n", u.Verified)
	_ = tw.Flush()
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <address>",
		Short: "Approve a pending user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := connect(cmd.Context(), out); err != nil {
				return err
			}
			rec, err := appCtx.Registration.VerifyUser(cmd.Context(), registration.VerifyRequest{Address: args[0]})
			if rec != nil && rec.LedgerTxID != "" {
				fmt.Fprintf(out, "tx: %s\n", rec.LedgerTxID)
			}
			return report(out, err)
		},
	}
}
