package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatRuby     Format = "markup"
	FormatMarkdown Format = "markdown"
	FormatUnknown  Format = ""
)

// ErrUnsupportedFormat is returned by Load for encodings it cannot read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DetectFormat returns the format implied by the file extension of path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".txt", ".ruby":
		return FormatRuby
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

// Load parses content according to the extension of path.
// Markdown is handled by the goldmark parser package, not here.
func Load(path string, content []byte) (*Document, error) {
	switch format := DetectFormat(path); format {
	case FormatYAML:
		return FromYAML(content)
	case FormatJSON:
		return FromJSON(content)
	case FormatRuby:
		return ParseMarkup(string(content))
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// FromYAML parses a document from YAML. Unknown keys are rejected.
func FromYAML(data []byte) (*Document, error) {
	doc := &Document{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}

// FromJSON parses a document from JSON. Unknown keys are rejected.
func FromJSON(data []byte) (*Document, error) {
	doc := &Document{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc, nil
}

// ToYAML serializes the document to YAML.
func (d *Document) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(d); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSON serializes the document to indented JSON.
func (d *Document) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}
