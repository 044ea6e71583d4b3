package equations

import "log"

// DefaultMaxEquations bounds the size of a System built with a zero Config.
const DefaultMaxEquations = 1024

// Config controls solver limits and tracing.
type Config struct {
	// MaxEquations caps the number of equations in one system; resolution
	// is quadratic in this number.
	MaxEquations int
	// Logger, when set, receives one line per loaded system and per
	// resolved variable.
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxEquations <= 0 {
		c.MaxEquations = DefaultMaxEquations
	}
	return c
}

func (c Config) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
