package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type assignment struct {
	Name  string
	Value float64
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [file...]",
		Short: "Solve a system of equations and print every variable",
		Long: "Solve reads one equation per line from the given files, or from stdin when\n" +
			"none are given. Files ending in .yaml or .yml hold an `equations:` list.",
		RunE: runSolve,
	}
	cmd.Flags().String("format", "", "Output format: text, json or yaml (default text, env EQSOLVE_FORMAT)")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	format := envOrDefault("EQSOLVE_FORMAT", "text")
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		format = v
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	cfg, err := solverConfig(cmd)
	if err != nil {
		return err
	}
	eqs, err := loadEquations(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	sys, err := equations.NewSystem(eqs, cfg)
	if err != nil {
		return err
	}
	values, err := sys.Evaluate()
	if err != nil {
		return err
	}
	return writeSolution(cmd.OutOrStdout(), format, solutionOrder(eqs, values))
}

func validFormat(format string) bool {
	switch format {
	case "text", "json", "yaml":
		return true
	default:
		return false
	}
}

// solutionOrder lists the values in the order their equations were given.
func solutionOrder(eqs []equations.Equation, values map[string]float64) []assignment {
	out := make([]assignment, 0, len(eqs))
	for _, eq := range eqs {
		out = append(out, assignment{Name: eq.LeftHandVariable, Value: values[eq.LeftHandVariable]})
	}
	return out
}

func writeSolution(w io.Writer, format string, solution []assignment) error {
	switch format {
	case "json":
		type jsonAssignment struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		}
		out := make([]jsonAssignment, len(solution))
		for i, a := range solution {
			out[i] = jsonAssignment{Name: a.Name, Value: jsonNumber(a.Value)}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range solution {
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.Name},
				&yaml.Node{Kind: yaml.ScalarNode, Value: yamlNumber(a.Value)},
			)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, a := range solution {
			if _, err := fmt.Fprintf(w, "%s = %s\n", a.Name, formatNumber(a.Value)); err != nil {
				return err
			}
		}
		return nil
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// jsonNumber keeps non-finite values representable in JSON.
func jsonNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatNumber(v)
	}
	return v
}

func yamlNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	default:
		return formatNumber(v)
	}
}
