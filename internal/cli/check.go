package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/policy"
)

var checkConfigPath string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "Config file to check (default: compiled-in path)")
}

var checkCmd = &cobra.Command{
	Use:   "check-config [dir]",
	Short: "Validate the config file and print the resolved policy",
	Long: "Parses the config file, reporting every syntax error, and prints the\n" +
		"policy that applies to dir (global settings only when dir is omitted)\n" +
		"as YAML. Restricted to the superuser.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckConfig,
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	if err := requireRoot("check-config"); err != nil {
		return err
	}

	path := checkConfigPath
	if path == "" {
		path = policy.DefaultPath
	}
	var dir string
	if len(args) == 1 {
		dir = args[0]
	}

	p, err := policy.Load(path, dir)
	if err != nil {
		return err
	}
	out, err := p.YAML()
	if err != nil {
		return model.Systemf("check-config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s", path)
	if dir != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " [%s]", dir)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s", out)
	return nil
}

// requireRoot refuses operator commands to anyone but the real superuser.
func requireRoot(command string) error {
	if sys.Getuid() != 0 {
		return model.Deniedf("%s: must be run by root", command)
	}
	return nil
}
