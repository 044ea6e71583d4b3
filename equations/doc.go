// Package equations solves small systems of textual equations. Each line is
// an assignment such as `x = 2*y + sin(z)`; the solver resolves references
// between equations and produces a value for every left-hand variable.
//
// The pipeline has four stages:
//   - Tokenize splits one line into lexical tokens (numbers, identifiers,
//     operators, parentheses and `=`).
//   - Tag classifies them into equation tokens: unary versus binary minus,
//     the functions sin, cos, tan, abs, floor, ceil, sqrt and cbrt, implied
//     multiplication (`2x`, `(a)(b)`, `x(y)`) and local grammar checks.
//   - ToPostfix reorders a right-hand side into postfix form.
//   - System resolves equations whose dependencies are known, one at a time,
//     until every variable has a value or a cycle is detected.
//
// Every failure is reported as an *InvalidExpressionError.
package equations
