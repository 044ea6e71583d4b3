// Command eqsolve solves systems of text equations.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "eqsolve",
		Short:        "Solve systems of equations like x = 2y + sin(z)",
		SilenceUsage: true,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("eqsolve version {{.Version}}\n")

	root.PersistentFlags().Bool("verbose", false, "Trace equation loading and resolution to stderr")
	root.PersistentFlags().Int("max-equations", 0, "Maximum equations in one system (default 1024, env EQSOLVE_MAX_EQUATIONS)")

	root.AddCommand(
		newSolveCmd(),
		newCheckCmd(),
		newFmtCmd(),
		newPostfixCmd(),
		newREPLCmd(),
		newLSPCmd(),
	)
	return root
}

// solverConfig merges the environment and the persistent flags into an
// equations.Config.
func solverConfig(cmd *cobra.Command) (equations.Config, error) {
	var cfg equations.Config

	raw := envOrDefault("EQSOLVE_MAX_EQUATIONS", strconv.Itoa(equations.DefaultMaxEquations))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return cfg, fmt.Errorf("invalid EQSOLVE_MAX_EQUATIONS %q", raw)
	}
	if v, _ := cmd.Flags().GetInt("max-equations"); v != 0 {
		if v < 0 {
			return cfg, fmt.Errorf("invalid --max-equations %d", v)
		}
		limit = v
	}
	cfg.MaxEquations = limit

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logger = log.New(cmd.ErrOrStderr(), "eqsolve: ", 0)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
