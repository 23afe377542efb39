// Package commands implements registryctl, a terminal client for the land
// registry that runs the same workflows as the HTTP API.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chainregistry/internal/app"
	"chainregistry/internal/ledger/ethereum"
	"chainregistry/internal/platform/config"
	"chainregistry/internal/platform/logger"
	"chainregistry/internal/registration"
)

var (
	appCtx     *app.App
	assumeYes  bool
	logLevel   string
	contentDir string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "registryctl",
		Short:         "Register users and land records on the registry ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if contentDir != "" {
				cfg.Content.Backend = "file"
				cfg.Content.Dir = contentDir
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			approver := ethereum.TerminalApprover(cmd.InOrStdin(), cmd.ErrOrStderr())
			if assumeYes {
				approver = ethereum.AutoApprove
			}

			a, err := app.Build(cmd.Context(), cfg,
				app.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)),
				app.WithApprover(approver),
			)
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "approve wallet prompts without asking")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")
	root.PersistentFlags().StringVar(&contentDir, "content-dir", "", "stage documents in this directory instead of CONTENT_BACKEND")

	root.AddCommand(
		stageCmd(),
		showCmd(),
		sessionCmd(),
		registerCmd(),
		addLandCmd(),
		unverifiedCmd(),
		userCmd(),
		verifyCmd(),
		auditCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// connect opens the ledger session for commands that talk to the contract.
func connect(ctx context.Context, out io.Writer) error {
	sess, err := appCtx.Session.Connect(ctx)
	if err != nil {
		return report(out, err)
	}
	fmt.Fprintf(out, "connected as %s\n", sess.AccountAddress)
	return nil
}

// report prints the user-facing notification for err and passes err through.
func report(out io.Writer, err error) error {
	n := registration.Describe(err)
	fmt.Fprintf(out, "[%s] %s: %s\n", n.Severity, n.Title, n.Message)
	if err != nil && !n.SafeToRetry {
		fmt.Fprintln(out, "do not resubmit until the transaction status is known")
	}
	return err
}
