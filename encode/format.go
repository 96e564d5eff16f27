package encode

import (
	"fmt"
	"strings"
)

type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

func (f Format) String() string {
	switch f {
	case JSONFormat:
		return "json"
	default:
		return "yaml"
	}
}

func (f Format) IsJSON() bool {
	return f == JSONFormat
}

// Suffix returns the file extension for f.
func (f Format) Suffix() string {
	if f == JSONFormat {
		return ".json"
	}
	return ".yaml"
}

// ParseFormat parses a format name or file suffix.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "yml", "y":
		return YAMLFormat, nil
	}
	return YAMLFormat, fmt.Errorf("%w: unknown format %q", ErrEncoding, s)
}
