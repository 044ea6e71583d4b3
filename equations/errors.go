package equations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// InvalidExpressionError is the single error kind returned by this package.
// Line and Column are 1-based; zero means unknown. Origin names the file the
// offending equation came from, when known.
type InvalidExpressionError struct {
	Message string
	Origin  string
	Line    int
	Column  int
	Source  string
}

func (e *InvalidExpressionError) Error() string {
	var b strings.Builder
	switch {
	case e.Origin != "" && e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, "invalid expression at %s:%d:%d: %s", e.Origin, e.Line, e.Column, e.Message)
	case e.Origin != "" && e.Line > 0:
		fmt.Fprintf(&b, "invalid expression at %s:%d: %s", e.Origin, e.Line, e.Message)
	case e.Origin != "":
		fmt.Fprintf(&b, "invalid expression in %s: %s", e.Origin, e.Message)
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, "invalid expression at %d:%d: %s", e.Line, e.Column, e.Message)
	case e.Line > 0:
		fmt.Fprintf(&b, "invalid expression at line %d: %s", e.Line, e.Message)
	case e.Column > 0:
		fmt.Fprintf(&b, "invalid expression at column %d: %s", e.Column, e.Message)
	default:
		fmt.Fprintf(&b, "invalid expression: %s", e.Message)
	}
	if frame := formatCodeFrame(e.Source, e.Line, e.Column); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// IsInvalidExpression reports whether err wraps an *InvalidExpressionError.
func IsInvalidExpression(err error) bool {
	var target *InvalidExpressionError
	return errors.As(err, &target)
}

// AsInvalidExpression unwraps err into an *InvalidExpressionError. Foreign
// errors are wrapped so callers always get the package error kind.
func AsInvalidExpression(err error) *InvalidExpressionError {
	if err == nil {
		return nil
	}
	var target *InvalidExpressionError
	if errors.As(err, &target) {
		return target
	}
	return &InvalidExpressionError{Message: err.Error()}
}

func newInvalidExpression(column int, format string, args ...any) *InvalidExpressionError {
	return &InvalidExpressionError{Message: fmt.Sprintf(format, args...), Column: column}
}

// located fills the source position of err when it is an
// *InvalidExpressionError that does not have one yet.
func located(err error, line int, source string) error {
	var target *InvalidExpressionError
	if !errors.As(err, &target) {
		return err
	}
	if target.Line == 0 {
		target.Line = line
	}
	if target.Source == "" {
		target.Source = source
	}
	return target
}

func formatCodeFrame(source string, line, column int) string {
	if source == "" || column <= 0 || strings.Contains(source, "\n") {
		return ""
	}

	lineRunes := []rune(source)
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	label := "1"
	if line > 0 {
		label = strconv.Itoa(line)
	}
	gutterPad := strings.Repeat(" ", len(label))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		" %s | %s\n %s | %s^",
		label,
		source,
		gutterPad,
		caretPad,
	)
}
