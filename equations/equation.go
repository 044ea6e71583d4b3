package equations

import "sort"

// Equation is one parsed line. Tokens is the right-hand side with the
// `name =` prefix removed; DependsOn is the sorted set of variable names it
// references. An Equation without `=` has an empty LeftHandVariable and can
// only be evaluated with EvaluateExpression.
type Equation struct {
	LeftHandVariable string
	Tokens           []EquationToken
	DependsOn        []string

	// Source is the original text and Line its 1-based line number in a
	// multi-line source (0 for a standalone line).
	Source string
	Line   int
	// Origin names the file the equation was read from, if any.
	Origin string

	lhsColumn int
}

// ParseEquation tokenizes, tags and splits a single line.
func ParseEquation(text string) (Equation, error) {
	tagged, err := Tag(Tokenize(text))
	if err != nil {
		return Equation{}, located(err, 0, text)
	}
	eq, err := NewEquation(tagged)
	if err != nil {
		return Equation{}, located(err, 0, text)
	}
	eq.Source = text
	return eq, nil
}

// NewEquation splits tagged tokens at their `=` and collects the right-hand
// variable references. The tokens must come from Tag, which guarantees the
// assignment shape.
func NewEquation(tokens []EquationToken) (Equation, error) {
	var eq Equation
	rhs := tokens
	if len(tokens) >= 2 && tokens[0].Kind == VariableOperand && tokens[1].Kind == EqualsOperator {
		eq.LeftHandVariable = tokens[0].Text
		eq.lhsColumn = tokens[0].Column
		rhs = tokens[2:]
	}
	if len(rhs) == 0 {
		return Equation{}, newInvalidExpression(0, "empty expression")
	}
	for _, tok := range rhs {
		if tok.Kind == EqualsOperator {
			return Equation{}, newInvalidExpression(tok.Column, "left-hand side of assignment must be a single variable")
		}
	}

	eq.Tokens = append([]EquationToken(nil), rhs...)
	eq.DependsOn = referencedVariables(eq.Tokens)
	return eq, nil
}

// IsAssignment reports whether the equation defines a variable.
func (e Equation) IsAssignment() bool {
	return e.LeftHandVariable != ""
}

// Postfix returns the right-hand side in postfix order.
func (e Equation) Postfix() []EquationToken {
	return ToPostfix(e.Tokens)
}

// locate attaches the position of e to err when err has none yet.
func (e Equation) locate(err error) error {
	err = located(err, e.Line, e.Source)
	if ie, ok := err.(*InvalidExpressionError); ok && ie.Origin == "" {
		ie.Origin = e.Origin
	}
	return err
}

// columnOf returns the column of the first reference to name, or 0.
func (e Equation) columnOf(name string) int {
	for _, tok := range e.Tokens {
		if tok.Kind == VariableOperand && tok.Text == name {
			return tok.Column
		}
	}
	return 0
}

func referencedVariables(tokens []EquationToken) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, tok := range tokens {
		if tok.Kind != VariableOperand {
			continue
		}
		if _, ok := seen[tok.Text]; ok {
			continue
		}
		seen[tok.Text] = struct{}{}
		names = append(names, tok.Text)
	}
	sort.Strings(names)
	return names
}
