package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/msudir/internal/audit"
	"github.com/ppiankov/msudir/internal/dispatch"
	"github.com/ppiankov/msudir/internal/integrity"
	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
)

// sys is replaced in tests.
var sys system.System = system.OS{}

var rootCmd = &cobra.Command{
	Use:   "msudir dir/cmd [args...]",
	Short: "Run a command from a trusted directory as its account",
	Long: "Runs <basedir>/dir/cmd as the account that owns dir (or is named dir),\n" +
		"after checking group membership, the ownership and permissions of every\n" +
		"path component, and sanitizing the environment and arguments.\n\n" +
		"Every token after dir/cmd is passed to the target unchanged apart from\n" +
		"character filtering; msudir itself takes no flags.",
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		status, err := integrity.Verify(sys)
		if err != nil {
			return err
		}
		if status == integrity.Skipped {
			fmt.Fprintln(cmd.ErrOrStderr(), "msudir: warning: binary integrity not verified (no expected hash)")
		}
		return nil
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	req, err := model.ParseRequest(args)
	if err != nil {
		return err
	}

	cfg := dispatch.Config{Stderr: cmd.ErrOrStderr()}
	if log := openAuditLog(cmd.ErrOrStderr()); log != nil {
		defer log.Close()
		cfg.Recorder = log
	}

	return dispatch.New(sys, cfg).Run(req, os.Environ())
}

// openAuditLog opens the audit log while still privileged. A log that
// cannot be opened is reported and skipped.
func openAuditLog(stderr io.Writer) *audit.Log {
	if audit.DefaultPath == "" {
		return nil
	}
	log, err := audit.Open(audit.DefaultPath)
	if err != nil {
		fmt.Fprintf(stderr, "msudir: warning: audit log: %v\n", err)
		return nil
	}
	return log
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "msudir: %v\n", err)
		os.Exit(model.ExitCode(err))
	}
}
