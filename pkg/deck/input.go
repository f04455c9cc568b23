package deck

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// Input is a complete composition request.
type Input struct {
	Slides   []Slide  `json:"slides" yaml:"slides"`
	Settings Settings `json:"settings" yaml:"settings"`
}

// Validate rejects inputs that cannot start a run.
func (in *Input) Validate() error {
	if len(in.Slides) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no slides to compose")
	}
	return in.Settings.ValidateAndSetDefaults()
}

// ReadJSON decodes an input document from JSON.
func ReadJSON(r io.Reader) (*Input, error) {
	var in Input
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, wrapDecode(err, "json")
	}
	return &in, nil
}

// ReadYAML decodes an input document from YAML.
func ReadYAML(r io.Reader) (*Input, error) {
	var in Input
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return nil, wrapDecode(err, "yaml")
	}
	return &in, nil
}

// WriteJSON encodes an input document as indented JSON.
func WriteJSON(w io.Writer, in *Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}

// Format identifies an input encoding.
type Format string

// Input formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatOutline Format = "outline"
)

// DetectFormat guesses the format from a file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".deck", ".outline", ".txt", ".md":
		return FormatOutline
	default:
		return FormatJSON
	}
}

// Decode reads data in the given format. Outline documents are handled by
// the outline package; Decode rejects them.
func Decode(data []byte, format Format) (*Input, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	case FormatYAML:
		return ReadYAML(bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}
}

// ReadFile reads a JSON or YAML input file.
func ReadFile(path string) (*Input, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Decode(data, DetectFormat(path))
}

func wrapDecode(err error, format string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s input", format)
}
