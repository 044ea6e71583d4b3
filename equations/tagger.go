package equations

import (
	"strconv"
	"strings"
)

type tagger struct {
	out       []EquationToken
	previous  Kind
	hasEquals bool
	// opens holds the columns of unmatched '(' tokens; its length is the
	// running parenthesis count.
	opens []int
}

// Tag converts lexical tokens into equation tokens, validating the local
// grammar of the line in a single left-to-right pass.
func Tag(tokens []LexToken) ([]EquationToken, error) {
	t := &tagger{previous: Bad}
	for _, tok := range tokens {
		if err := t.tag(tok); err != nil {
			return nil, err
		}
	}
	if err := t.finish(); err != nil {
		return nil, err
	}
	return t.out, nil
}

func (t *tagger) tag(tok LexToken) error {
	current := EquationToken{Text: tok.Text, Column: tok.Column}

	switch tok.Kind {
	case LexBad:
		return newInvalidExpression(tok.Column, "bad token '%s'", tok.Text)
	case LexIdentifier:
		if kind, ok := functionKinds[tok.Text]; ok {
			current.Kind = kind
		} else {
			current.Kind = VariableOperand
		}
	case LexOpenParen:
		current.Kind = OpenParenthesis
		t.opens = append(t.opens, tok.Column)
	case LexCloseParen:
		if t.previous == OpenParenthesis {
			return newInvalidExpression(tok.Column, "cannot have empty parenthesis")
		}
		if t.previous.IsOperator() {
			last := t.out[len(t.out)-1]
			return newInvalidExpression(last.Column, "operator '%s' is missing an operand", last.Text)
		}
		if len(t.opens) == 0 {
			return newInvalidExpression(tok.Column, "unmatched close parenthesis")
		}
		t.opens = t.opens[:len(t.opens)-1]
		current.Kind = CloseParenthesis
	case LexPlus:
		current.Kind = Addition
	case LexMinus:
		if t.previous.IsOperand() || t.previous == CloseParenthesis {
			current.Kind = Subtraction
		} else {
			current.Kind = Negation
		}
	case LexAsterisk:
		current.Kind = Multiplication
	case LexSlash:
		current.Kind = Division
	case LexCaret:
		current.Kind = Exponentiation
	case LexEquals:
		if t.hasEquals {
			return newInvalidExpression(tok.Column, "only one '=' is allowed")
		}
		t.hasEquals = true
		current.Kind = EqualsOperator
	case LexNumber:
		v, err := parseNumericOperand(tok)
		if err != nil {
			return err
		}
		current = NewNumericToken(tok.Text, v)
		current.Column = tok.Column
	default:
		return newInvalidExpression(tok.Column, "unknown token '%s'", tok.Text)
	}

	if hasImpliedMultiply(t.previous, current.Kind) {
		t.out = append(t.out, EquationToken{
			Kind:    Multiplication,
			Text:    "*",
			Column:  tok.Column,
			Implied: true,
		})
		t.previous = Multiplication
	}

	if current.Kind.IsBinary() && !(t.previous.IsOperand() || t.previous == CloseParenthesis) {
		return newInvalidExpression(tok.Column, "expected operand but got operator '%s'", tok.Text)
	}
	if current.Kind.IsOperand() && t.previous.IsOperand() {
		return newInvalidExpression(tok.Column, "unexpected operand '%s'", tok.Text)
	}

	t.out = append(t.out, current)
	t.previous = current.Kind
	return nil
}

func (t *tagger) finish() error {
	if t.previous.IsOperator() {
		last := t.out[len(t.out)-1]
		return newInvalidExpression(last.Column, "expression cannot end with operator '%s'", last.Text)
	}
	if len(t.opens) != 0 {
		return newInvalidExpression(t.opens[len(t.opens)-1], "unmatched open parenthesis")
	}
	if t.hasEquals {
		if len(t.out) < 2 || t.out[0].Kind != VariableOperand || t.out[1].Kind != EqualsOperator {
			column := 0
			if len(t.out) > 0 {
				column = t.out[0].Column
			}
			return newInvalidExpression(column, "left-hand side of assignment must be a single variable")
		}
	}
	return nil
}

// hasImpliedMultiply reports whether a Multiplication belongs between two
// adjacent tokens, e.g. `2x`, `(a)(b)`, `x(y)`, `2sin(x)`.
func hasImpliedMultiply(previous, current Kind) bool {
	switch previous {
	case CloseParenthesis, NumericOperand, VariableOperand:
	default:
		return false
	}

	switch {
	case current == VariableOperand, current == OpenParenthesis, current == NumericOperand:
	case current.IsUnary() && current != Negation:
	default:
		return false
	}

	return !(previous == NumericOperand && current == NumericOperand)
}

func parseNumericOperand(tok LexToken) (float64, error) {
	if strings.Count(tok.Text, ".") >= 2 {
		return 0, newInvalidExpression(tok.Column, "numerical operand '%s' contains too many decimal points", tok.Text)
	}
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return 0, newInvalidExpression(tok.Column, "numerical operand '%s' cannot be parsed", tok.Text)
	}
	return v, nil
}
