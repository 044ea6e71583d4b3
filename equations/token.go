package equations

// LexKind identifies the lexical category of a token.
type LexKind string

const (
	LexBad        LexKind = "BAD"
	LexNumber     LexKind = "NUMBER"
	LexIdentifier LexKind = "IDENT"
	LexPlus       LexKind = "+"
	LexMinus      LexKind = "-"
	LexAsterisk   LexKind = "*"
	LexSlash      LexKind = "/"
	LexCaret      LexKind = "^"
	LexEquals     LexKind = "="
	LexOpenParen  LexKind = "("
	LexCloseParen LexKind = ")"
)

// LexToken is one lexical unit of an input line.
type LexToken struct {
	Kind LexKind
	Text string
	// Column is the 1-based rune column where the token starts.
	Column int
}
