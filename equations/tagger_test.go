package equations

import (
	"strings"
	"testing"
)

func tagLine(t *testing.T, line string) []EquationToken {
	t.Helper()
	tokens, err := Tag(Tokenize(line))
	if err != nil {
		t.Fatalf("tag %q failed: %v", line, err)
	}
	return tokens
}

func kindsOf(tokens []EquationToken) []Kind {
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func sameKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTagClassifiesTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []Kind
	}{
		{"x = 3", []Kind{VariableOperand, EqualsOperator, NumericOperand}},
		{"-x", []Kind{Negation, VariableOperand}},
		{"x-y", []Kind{VariableOperand, Subtraction, VariableOperand}},
		{"(a)-b", []Kind{OpenParenthesis, VariableOperand, CloseParenthesis, Subtraction, VariableOperand}},
		{"2*-3", []Kind{NumericOperand, Multiplication, Negation, NumericOperand}},
		{"x = -3", []Kind{VariableOperand, EqualsOperator, Negation, NumericOperand}},
		{"sin cos x", []Kind{Sine, Cosine, VariableOperand}},
		{"abs(x)/floor(y)", []Kind{Absolute, OpenParenthesis, VariableOperand, CloseParenthesis, Division, Floor, OpenParenthesis, VariableOperand, CloseParenthesis}},
		{"ceil x ^ sqrt y", []Kind{Ceiling, VariableOperand, Exponentiation, SquareRoot, VariableOperand}},
		{"tan cbrt x", []Kind{Tangent, CubeRoot, VariableOperand}},
		{"a + b", []Kind{VariableOperand, Addition, VariableOperand}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kindsOf(tagLine(t, tt.input))
			if !sameKinds(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagInsertsImpliedMultiplication(t *testing.T) {
	tests := []struct {
		input string
		want  []Kind
	}{
		{"2x", []Kind{NumericOperand, Multiplication, VariableOperand}},
		{"(a)(b)", []Kind{OpenParenthesis, VariableOperand, CloseParenthesis, Multiplication, OpenParenthesis, VariableOperand, CloseParenthesis}},
		{"x(y)", []Kind{VariableOperand, Multiplication, OpenParenthesis, VariableOperand, CloseParenthesis}},
		{"2sin(x)", []Kind{NumericOperand, Multiplication, Sine, OpenParenthesis, VariableOperand, CloseParenthesis}},
		{"(x)2", []Kind{OpenParenthesis, VariableOperand, CloseParenthesis, Multiplication, NumericOperand}},
		{"x y", []Kind{VariableOperand, Multiplication, VariableOperand}},
		{"x sin y", []Kind{VariableOperand, Multiplication, Sine, VariableOperand}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tagLine(t, tt.input)
			if got := kindsOf(tokens); !sameKinds(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			implied := 0
			for _, tok := range tokens {
				if tok.Implied {
					implied++
					if tok.Kind != Multiplication {
						t.Fatalf("implied token has kind %s", tok.Kind)
					}
				}
			}
			if implied != 1 {
				t.Fatalf("expected exactly one implied multiplication, got %d", implied)
			}
		})
	}
}

func TestTagNegationIsNotImpliedMultiplication(t *testing.T) {
	got := kindsOf(tagLine(t, "2 -x"))
	want := []Kind{NumericOperand, Subtraction, VariableOperand}
	if !sameKinds(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTagParsesNumericPayload(t *testing.T) {
	tokens := tagLine(t, "0.25")
	v, err := tokens[0].NumericValue()
	if err != nil {
		t.Fatalf("numeric value: %v", err)
	}
	if v != 0.25 {
		t.Fatalf("expected 0.25, got %v", v)
	}
}

func TestNumericValueOnOperatorFails(t *testing.T) {
	tokens := tagLine(t, "x + 1")
	if _, err := tokens[1].NumericValue(); err == nil {
		t.Fatalf("expected error reading numeric value of an operator")
	}
	if _, err := tokens[0].NumericValue(); !IsInvalidExpression(err) {
		t.Fatalf("expected invalid expression error for variable token, got %v", err)
	}
}

func TestTagRejectsInvalidGrammar(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"()", "empty parenthesis"},
		{"(1+)", "operator '+' is missing an operand"},
		{"1 +", "cannot end with operator"},
		{"sin", "cannot end with operator"},
		{"sin(", "unmatched open parenthesis"},
		{"(1", "unmatched open parenthesis"},
		{"1)", "unmatched close parenthesis"},
		{"a)(b", "unmatched close parenthesis"},
		{"1 $ 2", "bad token '$'"},
		{"3..4", "too many decimal points"},
		{".", "cannot be parsed"},
		{"+3", "expected operand but got operator '+'"},
		{"1 * / 2", "expected operand but got operator '/'"},
		{"sin + 1", "expected operand but got operator '+'"},
		{"(*2)", "expected operand but got operator '*'"},
		{"2 3", "unexpected operand '3'"},
		{"x + 1 = 3", "left-hand side of assignment must be a single variable"},
		{"3 = x", "left-hand side of assignment must be a single variable"},
		{"x = y = 3", "only one '=' is allowed"},
		{"= 3", "expected operand but got operator '='"},
		{"x =", "cannot end with operator '='"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tag(Tokenize(tt.input))
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !IsInvalidExpression(err) {
				t.Fatalf("expected invalid expression error, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("expected %q in error, got %v", tt.message, err)
			}
		})
	}
}

func TestTagReportsColumn(t *testing.T) {
	_, err := Tag(Tokenize("x = 1 + $"))
	ie := AsInvalidExpression(err)
	if ie == nil || ie.Column != 9 {
		t.Fatalf("expected error at column 9, got %#v", ie)
	}
}
