package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file...>",
		Short: "Report every invalid line and unsolvable equation",
		Long: "Check reports every invalid line of every file. When all lines parse, the\n" +
			"files are checked together as one system, the way solve reads them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig(cmd)
			if err != nil {
				return err
			}
			return checkFiles(cmd.OutOrStdout(), args, cfg)
		},
	}
}

// checkFiles prints one path:line:col line per diagnostic. For YAML files
// the line is the entry number in the equations list.
func checkFiles(out io.Writer, paths []string, cfg equations.Config) error {
	var all []equations.Equation
	issues := 0
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		src, err := readSource(abs)
		if err != nil {
			return err
		}

		eqs, diags := equations.ParseLines(src)
		for _, diag := range diags {
			printDiagnostic(out, abs, diag)
		}
		issues += len(diags)
		for i := range eqs {
			eqs[i].Origin = abs
		}
		all = append(all, eqs...)
	}

	if issues == 0 {
		if diag := equations.DiagnoseSystem(all, cfg); diag != nil {
			printDiagnostic(out, diag.Origin, diag)
			issues++
		}
	}

	if issues == 0 {
		fmt.Fprintln(out, "No issues found")
		return nil
	}
	return fmt.Errorf("check found %d issue(s)", issues)
}

// printDiagnostic writes diag at path. A diagnostic that belongs to no
// single file, such as the system size limit, is printed without a position.
func printDiagnostic(out io.Writer, path string, diag *equations.InvalidExpressionError) {
	if path == "" {
		fmt.Fprintf(out, "eqsolve: %s\n", diag.Message)
		return
	}
	line := diag.Line
	column := diag.Column
	if line <= 0 {
		line = 1
	}
	if column <= 0 {
		column = 1
	}
	fmt.Fprintf(out, "%s:%d:%d: %s\n", path, line, column, diag.Message)
}
