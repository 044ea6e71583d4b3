package equations

// Kind is the semantic classification of an equation token.
type Kind int

const (
	// Bad is the zero Kind; the tagger uses it as "nothing emitted yet".
	Bad Kind = iota

	NumericOperand
	VariableOperand

	Negation
	Sine
	Cosine
	Tangent
	Absolute
	Floor
	Ceiling
	SquareRoot
	CubeRoot

	Addition
	Subtraction
	Multiplication
	Division
	Exponentiation
	EqualsOperator

	OpenParenthesis
	CloseParenthesis
)

// functionKinds maps reserved identifiers to their unary operator.
var functionKinds = map[string]Kind{
	"sin":   Sine,
	"cos":   Cosine,
	"tan":   Tangent,
	"abs":   Absolute,
	"floor": Floor,
	"ceil":  Ceiling,
	"sqrt":  SquareRoot,
	"cbrt":  CubeRoot,
}

// FunctionNames returns the reserved function identifiers in a stable order.
func FunctionNames() []string {
	return []string{"abs", "cbrt", "ceil", "cos", "floor", "sin", "sqrt", "tan"}
}

// IsFunctionName reports whether name is reserved for a unary function and
// therefore cannot be used as a variable.
func IsFunctionName(name string) bool {
	_, ok := functionKinds[name]
	return ok
}

func (k Kind) IsOperand() bool {
	switch k {
	case NumericOperand, VariableOperand:
		return true
	default:
		return false
	}
}

func (k Kind) IsUnary() bool {
	switch k {
	case Negation, Sine, Cosine, Tangent, Absolute, Floor, Ceiling, SquareRoot, CubeRoot:
		return true
	default:
		return false
	}
}

// IsBinary includes EqualsOperator: it takes two sides for grammar
// purposes even though it is never evaluated.
func (k Kind) IsBinary() bool {
	switch k {
	case Addition, Subtraction, Multiplication, Division, Exponentiation, EqualsOperator:
		return true
	default:
		return false
	}
}

func (k Kind) IsOperator() bool {
	return k.IsUnary() || k.IsBinary()
}

func (k Kind) IsParenthesis() bool {
	return k == OpenParenthesis || k == CloseParenthesis
}

// Priority is the shunting-yard precedence tier. Non-operators return -1.
func (k Kind) Priority() int {
	switch k {
	case Addition, Subtraction:
		return 1
	case Multiplication, Division:
		return 2
	case Exponentiation:
		return 3
	case Negation, Sine, Cosine, Tangent, Absolute, Floor, Ceiling, SquareRoot, CubeRoot:
		return 4
	default:
		return -1
	}
}

func (k Kind) String() string {
	switch k {
	case Bad:
		return "Bad"
	case NumericOperand:
		return "NumericOperand"
	case VariableOperand:
		return "VariableOperand"
	case Negation:
		return "Negation"
	case Sine:
		return "Sine"
	case Cosine:
		return "Cosine"
	case Tangent:
		return "Tangent"
	case Absolute:
		return "Absolute"
	case Floor:
		return "Floor"
	case Ceiling:
		return "Ceiling"
	case SquareRoot:
		return "SquareRoot"
	case CubeRoot:
		return "CubeRoot"
	case Addition:
		return "Addition"
	case Subtraction:
		return "Subtraction"
	case Multiplication:
		return "Multiplication"
	case Division:
		return "Division"
	case Exponentiation:
		return "Exponentiation"
	case EqualsOperator:
		return "EqualsOperator"
	case OpenParenthesis:
		return "OpenParenthesis"
	case CloseParenthesis:
		return "CloseParenthesis"
	default:
		return "Unknown"
	}
}
