package equations

import "unicode/utf8"

type lexer struct {
	input string

	offset int
	width  int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readRune()
	return l
}

// Tokenize splits a single line into lexical tokens. It never fails:
// characters outside the equation alphabet become LexBad tokens, which Tag
// rejects.
func Tokenize(line string) []LexToken {
	l := newLexer(line)
	var tokens []LexToken
	for {
		tok, ok := l.nextToken()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *lexer) atEOF() bool {
	return l.width == 0
}

func (l *lexer) nextToken() (LexToken, bool) {
	l.skipBlanks()
	if l.atEOF() {
		return LexToken{}, false
	}

	column := l.column
	switch l.ch {
	case '(':
		return l.single(LexOpenParen, column), true
	case ')':
		return l.single(LexCloseParen, column), true
	case '+':
		return l.single(LexPlus, column), true
	case '-':
		return l.single(LexMinus, column), true
	case '*':
		return l.single(LexAsterisk, column), true
	case '/':
		return l.single(LexSlash, column), true
	case '^':
		return l.single(LexCaret, column), true
	case '=':
		return l.single(LexEquals, column), true
	}

	switch {
	case isNumberRune(l.ch):
		return LexToken{Kind: LexNumber, Text: l.readRun(isNumberRune), Column: column}, true
	case isLetter(l.ch):
		return LexToken{Kind: LexIdentifier, Text: l.readRun(isLetter), Column: column}, true
	default:
		return l.single(LexBad, column), true
	}
}

func (l *lexer) single(kind LexKind, column int) LexToken {
	tok := LexToken{Kind: kind, Text: string(l.ch), Column: column}
	l.readRune()
	return tok
}

// readRun consumes the maximal run of runes accepted by valid, starting at
// the current rune.
func (l *lexer) readRun(valid func(rune) bool) string {
	start := l.offset - l.width
	for !l.atEOF() && valid(l.ch) {
		l.readRune()
	}
	end := l.offset - l.width
	return l.input[start:end]
}

func (l *lexer) skipBlanks() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readRune()
	}
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
