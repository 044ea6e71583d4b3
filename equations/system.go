package equations

import (
	"maps"
	"sort"
	"strings"
)

// System is a batch of assignments solved together. It is not safe for
// concurrent use.
type System struct {
	config    Config
	equations []Equation
	defined   map[string]int

	// Working state of the current Evaluate call.
	values  map[string]float64
	pending map[int]map[string]struct{}
	order   []string
}

// NewSystem validates a batch of equations: every equation must assign a
// distinct variable and every referenced variable must be assigned by some
// equation.
func NewSystem(eqs []Equation, cfg Config) (*System, error) {
	cfg = cfg.withDefaults()
	if len(eqs) > cfg.MaxEquations {
		return nil, newInvalidExpression(0, "too many equations: %d exceeds the limit of %d", len(eqs), cfg.MaxEquations)
	}

	s := &System{
		config:    cfg,
		equations: append([]Equation(nil), eqs...),
		defined:   make(map[string]int, len(eqs)),
	}

	for i, eq := range s.equations {
		if !eq.IsAssignment() {
			return nil, eqError(eq, 0, "equation has no left-hand variable")
		}
		if prev, ok := s.defined[eq.LeftHandVariable]; ok {
			first := s.equations[prev]
			switch {
			case first.Line > 0 && first.Origin != "" && first.Origin != eq.Origin:
				return nil, eqError(eq, eq.lhsColumn, "variable '%s' is already defined at %s:%d", eq.LeftHandVariable, first.Origin, first.Line)
			case first.Line > 0:
				return nil, eqError(eq, eq.lhsColumn, "variable '%s' is already defined on line %d", eq.LeftHandVariable, first.Line)
			}
			return nil, eqError(eq, eq.lhsColumn, "variable '%s' is defined more than once", eq.LeftHandVariable)
		}
		s.defined[eq.LeftHandVariable] = i
	}

	for _, eq := range s.equations {
		for _, name := range eq.DependsOn {
			if _, ok := s.defined[name]; !ok {
				return nil, eqError(eq, eq.columnOf(name), "undefined variable '%s'", name)
			}
		}
	}

	cfg.logf("loaded %d equation(s)", len(s.equations))
	return s, nil
}

// Solve builds a System with the default Config and evaluates it.
func Solve(eqs []Equation) (map[string]float64, error) {
	s, err := NewSystem(eqs, Config{})
	if err != nil {
		return nil, err
	}
	return s.Evaluate()
}

// Equations returns the equations of the system in input order.
func (s *System) Equations() []Equation {
	return append([]Equation(nil), s.equations...)
}

// Evaluate resolves every variable. It repeatedly scans the pending
// equations in input order, evaluates the first one whose dependencies are
// all resolved and restarts the scan; a scan without progress means the
// remaining equations reference each other.
//
// Each call starts from scratch and the returned map is owned by the caller.
func (s *System) Evaluate() (map[string]float64, error) {
	s.reset()

	for len(s.pending) > 0 {
		i, ok := s.nextReady()
		if !ok {
			err := s.cycleError()
			s.order = nil
			return nil, err
		}
		if err := s.resolve(i); err != nil {
			s.order = nil
			return nil, err
		}
	}

	return maps.Clone(s.values), nil
}

// Order returns the variables in the order the last successful Evaluate
// resolved them.
func (s *System) Order() []string {
	return append([]string(nil), s.order...)
}

func (s *System) reset() {
	s.values = make(map[string]float64, len(s.equations))
	s.pending = make(map[int]map[string]struct{}, len(s.equations))
	s.order = s.order[:0]
	for i, eq := range s.equations {
		deps := make(map[string]struct{}, len(eq.DependsOn))
		for _, name := range eq.DependsOn {
			deps[name] = struct{}{}
		}
		s.pending[i] = deps
	}
}

func (s *System) nextReady() (int, bool) {
	for i := range s.equations {
		deps, ok := s.pending[i]
		if ok && len(deps) == 0 {
			return i, true
		}
	}
	return 0, false
}

func (s *System) resolve(i int) error {
	eq := s.equations[i]
	v, err := EvaluatePostfix(eq.Postfix(), s.values)
	if err != nil {
		return eq.locate(err)
	}

	s.values[eq.LeftHandVariable] = v
	s.order = append(s.order, eq.LeftHandVariable)
	delete(s.pending, i)
	for _, deps := range s.pending {
		delete(deps, eq.LeftHandVariable)
	}
	s.config.logf("resolved %s = %g", eq.LeftHandVariable, v)
	return nil
}

func (s *System) cycleError() error {
	var names []string
	first := -1
	for i, eq := range s.equations {
		if _, ok := s.pending[i]; !ok {
			continue
		}
		if first < 0 {
			first = i
		}
		names = append(names, eq.LeftHandVariable)
	}
	sort.Strings(names)
	return eqError(s.equations[first], s.equations[first].lhsColumn, "circular variable references between %s", strings.Join(names, ", "))
}

// EvaluateExpression evaluates the right-hand side of eq against known
// variable values without modifying vars.
func EvaluateExpression(eq Equation, vars map[string]float64) (float64, error) {
	for _, name := range eq.DependsOn {
		if _, ok := vars[name]; !ok {
			return 0, eqError(eq, eq.columnOf(name), "undefined variable '%s'", name)
		}
	}
	v, err := EvaluatePostfix(eq.Postfix(), vars)
	if err != nil {
		return 0, eq.locate(err)
	}
	return v, nil
}

func eqError(eq Equation, column int, format string, args ...any) error {
	err := newInvalidExpression(column, format, args...)
	err.Line = eq.Line
	err.Source = eq.Source
	err.Origin = eq.Origin
	return err
}
