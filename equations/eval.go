package equations

import "math"

// cubeRootExponent reproduces cbrt as a fixed fractional power, so negative
// inputs yield NaN.
const cubeRootExponent = 1.0 / 3.0

// EvaluatePostfix runs a postfix sequence on a value stack, substituting
// variables from vars.
func EvaluatePostfix(postfix []EquationToken, vars map[string]float64) (float64, error) {
	stack := make([]float64, 0, len(postfix))
	pop := func(tok EquationToken) (float64, error) {
		if len(stack) == 0 {
			return 0, newInvalidExpression(tok.Column, "operator '%s' is missing an operand", tok.Text)
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, tok := range postfix {
		switch {
		case tok.Kind == NumericOperand:
			v, err := tok.NumericValue()
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)
		case tok.Kind == VariableOperand:
			v, ok := vars[tok.Text]
			if !ok {
				return 0, newInvalidExpression(tok.Column, "undefined variable '%s'", tok.Text)
			}
			stack = append(stack, v)
		case tok.Kind.IsUnary():
			n, err := pop(tok)
			if err != nil {
				return 0, err
			}
			r, err := applyUnary(tok, n)
			if err != nil {
				return 0, err
			}
			stack = append(stack, r)
		case tok.Kind.IsBinary():
			b, err := pop(tok)
			if err != nil {
				return 0, err
			}
			a, err := pop(tok)
			if err != nil {
				return 0, err
			}
			r, err := applyBinary(tok, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, r)
		default:
			return 0, newInvalidExpression(tok.Column, "unexpected %s '%s' in postfix expression", tok.Kind, tok.Text)
		}
	}

	switch len(stack) {
	case 0:
		return 0, newInvalidExpression(0, "empty expression")
	case 1:
		return stack[0], nil
	default:
		return 0, newInvalidExpression(0, "malformed expression: %d values left on the stack", len(stack))
	}
}

func applyUnary(tok EquationToken, n float64) (float64, error) {
	switch tok.Kind {
	case Negation:
		return -n, nil
	case Sine:
		return math.Sin(n), nil
	case Cosine:
		return math.Cos(n), nil
	case Tangent:
		return math.Tan(n), nil
	case Absolute:
		return math.Abs(n), nil
	case Floor:
		return math.Floor(n), nil
	case Ceiling:
		return math.Ceil(n), nil
	case SquareRoot:
		return math.Sqrt(n), nil
	case CubeRoot:
		return math.Pow(n, cubeRootExponent), nil
	default:
		return 0, newInvalidExpression(tok.Column, "'%s' is not a unary operator", tok.Text)
	}
}

func applyBinary(tok EquationToken, a, b float64) (float64, error) {
	switch tok.Kind {
	case Addition:
		return a + b, nil
	case Subtraction:
		return a - b, nil
	case Multiplication:
		return a * b, nil
	case Division:
		return a / b, nil
	case Exponentiation:
		return math.Pow(a, b), nil
	default:
		return 0, newInvalidExpression(tok.Column, "'%s' cannot be evaluated", tok.Text)
	}
}
