package log

import (
	"io"
	"os"
	"strings"
)

// Format selects the handler used to encode records.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ParseFormat parses "json" or "text" (also "console"). Anything else is JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Config holds logger settings.
type Config struct {
	Level  Level
	Format Format
	// Output defaults to stderr so that command output on stdout stays clean.
	Output      io.Writer
	AddSource   bool
	ServiceName string
}

// DefaultConfig logs info and above as JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      os.Stderr,
		ServiceName: "staffplan",
	}
}
