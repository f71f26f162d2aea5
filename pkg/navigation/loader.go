package navigation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported navigation format")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is the on-disk shape of a navigation file. Icons maps icon names
// to custom SVG markup.
type Document struct {
	Navigation []Entry           `json:"navigation" yaml:"navigation" toml:"navigation"`
	Icons      map[string]string `json:"icons,omitempty" yaml:"icons,omitempty" toml:"icons,omitempty"`
}

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
}

func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation file: %w", err)
	}

	doc, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Decode parses a navigation document. JSON and YAML accept either a bare
// list of entries or an object with a navigation key; TOML always uses the
// object form with [[navigation]] tables.
func Decode(format Format, data []byte) (*Document, error) {
	doc := &Document{}

	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &doc.Navigation); err != nil {
				return nil, err
			}
			return doc, nil
		}
		if err := json.Unmarshal(trimmed, doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if _, isList := raw.([]interface{}); isList {
			if err := yaml.Unmarshal(data, &doc.Navigation); err != nil {
				return nil, err
			}
			return doc, nil
		}
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return doc, nil
}

func Encode(format Format, doc *Document) ([]byte, error) {
	if doc == nil {
		doc = &Document{}
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
