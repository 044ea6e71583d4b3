package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nt314p/eqsolve/equations"
	"gopkg.in/yaml.v3"
)

// equationFile is the YAML layout of an equation list:
//
//	equations:
//	  - y = 3
//	  - x = 2y + 1
type equationFile struct {
	Equations []string `yaml:"equations"`
}

// readSource returns the equation source held in path, one equation per
// line. YAML files are flattened so that entry N becomes line N.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !isYAMLPath(path) {
		return string(data), nil
	}

	var file equationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	for i, eq := range file.Equations {
		if strings.ContainsAny(eq, "\r\n") {
			return "", fmt.Errorf("decode %s: equation %d spans more than one line", path, i+1)
		}
	}
	return strings.Join(file.Equations, "\n"), nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// loadEquations parses every file in paths, or stdin when paths is empty,
// into one list. Equations read from a file carry its path as Origin.
func loadEquations(paths []string, stdin io.Reader) ([]equations.Equation, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return equations.ParseSource(string(data))
	}

	var all []equations.Equation
	for _, path := range paths {
		src, err := readSource(path)
		if err != nil {
			return nil, err
		}
		eqs, err := equations.ParseSource(src)
		if err != nil {
			ie := equations.AsInvalidExpression(err)
			ie.Origin = path
			return nil, ie
		}
		for i := range eqs {
			eqs[i].Origin = path
		}
		all = append(all, eqs...)
	}
	return all, nil
}
