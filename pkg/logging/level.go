package logging

import (
	"fmt"
	"strings"
)

// Level represents a log level
type Level int

const (
	// DebugLevel logs per-level engine statistics and sink details
	DebugLevel Level = iota
	// InfoLevel is the default; one entry per analysis stage
	InfoLevel
	// WarnLevel flags results that are usable but degraded, such as non-convergence
	WarnLevel
	// ErrorLevel logs failed stages
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO", "":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
