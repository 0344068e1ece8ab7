package document

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Format is an on-disk encoding for graph documents.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported graph file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// ParseFormat validates a format name such as "yaml".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "yml" {
		f = FormatYAML
	}
	if err := errors.RequireOneOf("format", string(f), string(FormatJSON), string(FormatYAML), string(FormatTOML)); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse format")
	}
	return f, nil
}
