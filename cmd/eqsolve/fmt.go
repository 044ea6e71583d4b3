package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <path...>",
		Short: "Rewrite .eq files in canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			check, _ := cmd.Flags().GetBool("check")
			return formatPaths(cmd.OutOrStdout(), args, write, check)
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Write result to source files instead of stdout")
	cmd.Flags().Bool("check", false, "Fail if any source file needs formatting")
	return cmd
}

func formatPaths(out io.Writer, targets []string, write, check bool) error {
	files, err := collectEquationFiles(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatEquationSource(original)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !write && !check:
			fmt.Fprint(out, formatted)
		}
	}

	if check && changedCount > 0 {
		return fmt.Errorf("eqsolve fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectEquationFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ".eq" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatEquationSource canonicalizes every equation line. Comments are kept
// with surrounding blanks trimmed, runs of blank lines are preserved and the
// result ends with exactly one newline.
func formatEquationSource(source string) (string, error) {
	lines := equations.SplitLines(source)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines[i] = trimmed
			continue
		}
		eq, err := equations.ParseEquation(line)
		if err != nil {
			ie := equations.AsInvalidExpression(err)
			ie.Line = i + 1
			return "", ie
		}
		lines[i] = equations.Format(eq)
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n", nil
}
