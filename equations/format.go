package equations

import "strings"

// Format renders an equation in canonical form: binary operators surrounded
// by single spaces, implied multiplication written out, functions and
// negation attached to their operand.
//
//	x=2y+sin( z )  ->  x = 2 * y + sin(z)
func Format(eq Equation) string {
	var b strings.Builder
	if eq.IsAssignment() {
		b.WriteString(eq.LeftHandVariable)
		b.WriteString(" = ")
	}
	b.WriteString(FormatTokens(eq.Tokens))
	return b.String()
}

// FormatTokens renders an infix token sequence the way Format does.
func FormatTokens(tokens []EquationToken) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && needsSpace(tokens[i-1], tok) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func needsSpace(prev, cur EquationToken) bool {
	switch {
	case prev.Kind.IsBinary() || cur.Kind.IsBinary():
		return true
	case prev.Kind == OpenParenthesis || prev.Kind == Negation:
		return false
	case cur.Kind == CloseParenthesis:
		return false
	case prev.Kind.IsUnary() && cur.Kind == OpenParenthesis:
		return false
	default:
		return true
	}
}
