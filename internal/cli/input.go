package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/deck/outline"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// stdinPath reads the input document from standard input.
const stdinPath = "-"

// loadInput reads a deck from path. The format is taken from inputFormat if
// set, otherwise from the file extension; standard input defaults to JSON.
func loadInput(path, inputFormat string, stdin io.Reader) (*deck.Input, error) {
	var data []byte
	var err error
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	format := deck.Format(strings.ToLower(inputFormat))
	if format == "" {
		format = deck.FormatJSON
		if path != stdinPath {
			format = deck.DetectFormat(path)
		}
	}
	if format == deck.FormatOutline {
		return outline.Read(bytes.NewReader(data))
	}
	return deck.Decode(data, format)
}

// settingsFlags are the per-run overrides shared by compose, preview and
// inspect.
type settingsFlags struct {
	theme      string
	themeFile  string
	layout     string
	fontStyle  string
	brandColor string
	logo       string
	sourceURL  string
	width      float64
	height     float64
}

// apply overrides the document's settings with every flag that was set.
func (f *settingsFlags) apply(s *deck.Settings) error {
	if f.themeFile != "" {
		theme, err := deck.LoadTheme(f.themeFile)
		if err != nil {
			return err
		}
		s.Theme = theme.Name
	}
	if f.theme != "" {
		s.Theme = f.theme
	}
	if f.layout != "" {
		s.LayoutStyle = deck.LayoutStyle(strings.ToLower(f.layout))
	}
	if f.fontStyle != "" {
		s.FontStyle = deck.FontStyle(strings.ToLower(f.fontStyle))
	}
	if f.brandColor != "" {
		c, err := deck.ParseHex(f.brandColor)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "brand color")
		}
		s.BrandColor = &c
	}
	if f.logo != "" {
		s.BrandLogo = &deck.AssetRef{Path: f.logo}
	}
	if f.sourceURL != "" {
		s.SourceURL = f.sourceURL
	}
	if f.width > 0 {
		s.SlideWidth = f.width
	}
	if f.height > 0 {
		s.SlideHeight = f.height
	}
	return nil
}

// readDeck loads path and applies the flag overrides.
func readDeck(path, inputFormat string, stdin io.Reader, flags *settingsFlags) (*deck.Input, error) {
	in, err := loadInput(path, inputFormat, stdin)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(&in.Settings); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}
