package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/msudir/internal/audit"
	"github.com/ppiankov/msudir/internal/model"
)

var tailLines int

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained decision log.\nRestricted to the superuser.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Verify hash chain integrity of an audit log",
	Long: "Walks the JSONL audit log and validates that every entry's prev_hash\n" +
		"matches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail [path]",
	Short: "Show recent audit log entries",
	Long:  "Reads the last N entries from the JSONL audit log and pretty-prints them.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuditTail,
}

// auditPath returns the log to read. Only the superuser may read it,
// since the binary opens files with root's effective uid.
func auditPath(args []string) (string, error) {
	if err := requireRoot("audit"); err != nil {
		return "", err
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if audit.DefaultPath == "" {
		return "", model.Usagef("audit: no log path given and none compiled in")
	}
	return audit.DefaultPath, nil
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}

	result := audit.Verify(path)
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified (%d allowed, %d denied)\n",
			result.Lines, result.Allowed, result.Denied)
		return nil
	}
	if result.ErrorLine == 0 {
		return model.Systemf("audit: %s", result.Error)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Systemf("open audit log: %w", err)
	}
	defer f.Close()

	// Read all lines, keep last N
	var lines []string
	scanner := audit.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return model.Systemf("read audit log: %w", err)
	}

	start := max(len(lines)-tailLines, 0)

	out := cmd.OutOrStdout()
	for _, line := range lines[start:] {
		var entry audit.AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			fmt.Fprintln(out, line)
			continue
		}
		pretty, _ := json.MarshalIndent(entry, "", "  ")
		fmt.Fprintln(out, string(pretty))
	}

	return nil
}
