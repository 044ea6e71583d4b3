package equations

import (
	"strings"
	"testing"
)

func postfixText(tokens []EquationToken) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

func TestToPostfix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(a+b)*c", "a b + c *"},
		{"2+3*4", "2 3 4 * +"},
		{"2*3+4", "2 3 * 4 +"},
		{"10-4-3", "10 4 3 - -"},
		{"8/4/2", "8 4 2 / /"},
		{"2^3^2", "2 3 2 ^ ^"},
		{"-x^2", "x - 2 ^"},
		{"sin(x)+1", "x sin 1 +"},
		{"sin cos x", "x cos sin"},
		{"2x", "2 x *"},
		{"((a))", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := postfixText(ToPostfix(tagLine(t, tt.input)))
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToPostfixRoundTripKinds(t *testing.T) {
	got := kindsOf(ToPostfix(tagLine(t, "(a+b)*c")))
	want := []Kind{VariableOperand, VariableOperand, Addition, VariableOperand, Multiplication}
	if !sameKinds(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToPostfixDropsOnlyParentheses(t *testing.T) {
	inputs := []string{
		"(a+b)*c",
		"x(y)(z)",
		"-(1 - (2 - (3 - 4)))",
		"sqrt(abs(x - 2)) ^ (1/2)",
		"2sin(x)cos(y)",
		"a",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens := tagLine(t, input)
			parens := 0
			for _, tok := range tokens {
				if tok.Kind.IsParenthesis() {
					parens++
				}
			}
			postfix := ToPostfix(tokens)
			if len(postfix) != len(tokens)-parens {
				t.Fatalf("expected %d postfix tokens, got %d", len(tokens)-parens, len(postfix))
			}
			for _, tok := range postfix {
				if tok.Kind.IsParenthesis() {
					t.Fatalf("parenthesis leaked into postfix output: %v", postfix)
				}
			}
		})
	}
}

func TestToPostfixToleratesStrayParentheses(t *testing.T) {
	tokens := []EquationToken{
		NewNumericToken("1", 1),
		{Kind: CloseParenthesis, Text: ")"},
		{Kind: Addition, Text: "+"},
		{Kind: OpenParenthesis, Text: "("},
		NewNumericToken("2", 2),
	}
	if got := postfixText(ToPostfix(tokens)); got != "1 2 +" {
		t.Fatalf("unexpected postfix %q", got)
	}
}
