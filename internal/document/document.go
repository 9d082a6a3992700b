// Package document decodes the configuration documents the simulator
// consumes. HCL is the native format; YAML is accepted for documents carried
// over from other tools.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a file extension that maps to no decoder.
var ErrUnknownFormat = errors.New("document: unknown format")

// Format is a document encoding.
type Format int

const (
	HCL Format = iota + 1
	YAML
)

func (f Format) String() string {
	switch f {
	case HCL:
		return "hcl"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return HCL, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Read loads a document and reports its format.
func Read(path string) ([]byte, Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, format, nil
}

// DecodeHCL decodes an HCL body into target, which must be a pointer to a
// struct with hcl tags. Attributes absent from the document leave the
// corresponding field untouched, so targets may be pre-filled with defaults.
func DecodeHCL(src []byte, filename string, target any) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	diags = gohcl.DecodeBody(file.Body, nil, target)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return nil
}

// DecodeYAML decodes YAML into target, rejecting unknown fields. As with
// DecodeHCL, absent fields keep their pre-filled value.
func DecodeYAML(src []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("failed to decode YAML: %w", err)
	}
	return nil
}
