package equations

import (
	"sort"
	"strings"
)

// ParseSource parses a multi-line source with one equation per line. Blank
// lines and lines starting with '#' are skipped. It stops at the first
// invalid line.
func ParseSource(src string) ([]Equation, error) {
	var eqs []Equation
	for i, line := range SplitLines(src) {
		if skipLine(line) {
			continue
		}
		eq, err := parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		eqs = append(eqs, eq)
	}
	return eqs, nil
}

// ParseLines parses every equation line of src. Unlike ParseSource it keeps
// going after an invalid line and returns one error per such line, sorted by
// position.
func ParseLines(src string) ([]Equation, []*InvalidExpressionError) {
	var (
		eqs   []Equation
		diags []*InvalidExpressionError
	)
	for i, line := range SplitLines(src) {
		if skipLine(line) {
			continue
		}
		eq, err := parseLine(line, i+1)
		if err != nil {
			diags = append(diags, AsInvalidExpression(err))
			continue
		}
		eqs = append(eqs, eq)
	}
	sortDiagnostics(diags)
	return eqs, diags
}

// DiagnoseSystem returns the error of building and solving eqs as one
// system, or nil when they solve.
func DiagnoseSystem(eqs []Equation, cfg Config) *InvalidExpressionError {
	sys, err := NewSystem(eqs, cfg)
	if err == nil {
		_, err = sys.Evaluate()
	}
	return AsInvalidExpression(err)
}

// Diagnose reports every problem in a multi-line source: one error per
// invalid line or, when every line parses, the error of solving the whole
// system. The result is sorted by position and empty for a valid source.
func Diagnose(src string) []*InvalidExpressionError {
	eqs, diags := ParseLines(src)
	if len(diags) > 0 {
		return diags
	}
	if diag := DiagnoseSystem(eqs, Config{}); diag != nil {
		return []*InvalidExpressionError{diag}
	}
	return nil
}

func parseLine(line string, lineNo int) (Equation, error) {
	eq, err := ParseEquation(line)
	if err != nil {
		return Equation{}, located(err, lineNo, line)
	}
	eq.Line = lineNo
	if !eq.IsAssignment() {
		return Equation{}, eqError(eq, eq.Tokens[0].Column, "expected an assignment of the form 'name = expression'")
	}
	return eq, nil
}

// SplitLines splits src at "\r\n", "\n" and a lone "\r".
func SplitLines(src string) []string {
	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func skipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func sortDiagnostics(diags []*InvalidExpressionError) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
}
