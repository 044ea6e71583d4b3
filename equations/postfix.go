package equations

// ToPostfix reorders an infix token sequence into postfix form using the
// shunting-yard algorithm. The `=` of an assignment must already be
// stripped.
//
// An operator on the stack is popped only when its priority is strictly
// greater than the incoming operator's, so operators of the same tier group
// right to left: `a-b-c` is `a-(b-c)`.
//
// Parenthesis mismatches are tolerated here; Tag rejects them earlier.
func ToPostfix(tokens []EquationToken) []EquationToken {
	out := make([]EquationToken, 0, len(tokens))
	var stack []EquationToken

	for _, tok := range tokens {
		switch {
		case tok.Kind.IsOperand():
			out = append(out, tok)
		case tok.Kind.IsOperator():
			priority := tok.Kind.Priority()
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind.IsParenthesis() || top.Kind.Priority() <= priority {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case tok.Kind == OpenParenthesis:
			stack = append(stack, tok)
		case tok.Kind == CloseParenthesis:
			for len(stack) > 0 && stack[len(stack)-1].Kind != OpenParenthesis {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !top.Kind.IsParenthesis() {
			out = append(out, top)
		}
	}
	return out
}
