package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/msudir/internal/integrity"
	"github.com/ppiankov/msudir/internal/model"
)

func init() {
	rootCmd.AddCommand(hashCmd)
}

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the SHA-256 of the running binary",
	Long: "Prints the digest to install as the checksum file or to embed with\n" +
		"-ldflags \"-X github.com/ppiankov/msudir/internal/integrity.ExpectedHash=<hash>\".",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := integrity.HashSelf()
		if err != nil {
			return model.Systemf("hash: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}
