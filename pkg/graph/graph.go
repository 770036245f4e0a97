package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	terrors "github.com/iloginov/tasker/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", terrors.New(terrors.ErrCodeInvalidFormat, "unknown graph format %q (want json or yaml)", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a document. Unknown fields are rejected so that typos such as
// "dependants" fail loudly instead of producing an empty graph.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "decode json graph: %v", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, terrors.Wrap(terrors.ErrCodeInvalidFormat, err, "decode yaml graph: %v", err)
		}
	default:
		return nil, terrors.New(terrors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Read decodes a document from r.
func Read(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "read graph: %v", err)
	}
	return Parse(data, format)
}

// ReadFile decodes the document at path, choosing the format by extension.
// The path "-" reads standard input as JSON.
func ReadFile(path string) (*Document, error) {
	if path == "-" {
		return Read(os.Stdin, FormatJSON)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "graph file not found: %s", path)
	}
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "read %s: %v", path, err)
	}
	return Parse(data, FormatFromPath(path))
}

// Marshal encodes a document in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
