package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chainregistry/pkg/domain"
)

func stageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <file>",
		Short: "Stage a document locally and print its content hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			hash, err := appCtx.Documents.Stage(cmd.Context(), raw)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "show <hash>",
		Short: "Print the kind of a staged document or write its bytes to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := domain.ContentHash(args[0])
			view, err := appCtx.Documents.Open(cmd.Context(), hash)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			defer appCtx.Documents.Release(view.Hash)

			data, err := view.Bytes()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d bytes\n", view.Hash, view.Mime.ContentType(data), len(data))
			if outPath == "" {
				return nil
			}
			return os.WriteFile(outPath, data, 0o600)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the decoded document to this path")
	return cmd
}
