package equations

import "fmt"

// EquationToken is a semantically classified token. Only NumericOperand
// tokens carry a numeric payload.
type EquationToken struct {
	Kind Kind
	Text string
	// Column is the 1-based column of the source token; synthesized tokens
	// take the column of the token that caused them.
	Column int
	// Implied marks a Multiplication inserted by the tagger.
	Implied bool

	value float64
}

// NewNumericToken returns a NumericOperand token holding v.
func NewNumericToken(text string, v float64) EquationToken {
	return EquationToken{Kind: NumericOperand, Text: text, value: v}
}

// NumericValue returns the payload of a NumericOperand token. Reading it from
// any other kind is an error rather than a silent zero.
func (t EquationToken) NumericValue() (float64, error) {
	if t.Kind != NumericOperand {
		return 0, newInvalidExpression(t.Column, "token '%s' (%s) has no numeric value", t.Text, t.Kind)
	}
	return t.value, nil
}

func (t EquationToken) String() string {
	return fmt.Sprintf("%s: %s", t.Kind, t.Text)
}
