package deck

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	Red   float64 `json:"red" yaml:"red"`
	Green float64 `json:"green" yaml:"green"`
	Blue  float64 `json:"blue" yaml:"blue"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{Red: r, Green: g, Blue: b, Alpha: 1}
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, errors.New(errors.ErrCodeInvalidSettings, "invalid color %q", s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid color %q", s)
	}
	return Color{Red: c.R, Green: c.G, Blue: c.B, Alpha: alpha}, nil
}

// MustHex is like ParseHex but panics on error. Intended for built-in tables.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	h := colorful.Color{R: clamp01(c.Red), G: clamp01(c.Green), B: clamp01(c.Blue)}.Hex()
	if c.Alpha >= 1 {
		return h
	}
	return fmt.Sprintf("%s%02x", h, uint8(math.Round(clamp01(c.Alpha)*255)))
}

// Colorful converts to a go-colorful color, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: clamp01(c.Red), G: clamp01(c.Green), B: clamp01(c.Blue)}
}

// WithAlpha returns c with only the alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.Alpha = clamp01(a)
	return c
}

// RGBA8 returns the 8-bit channel values.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.Red), to8(c.Green), to8(c.Blue), to8(c.Alpha)
}

// Validate checks that every channel lies in [0, 1].
func (c Color) Validate(name string) error {
	for _, ch := range []struct {
		n string
		v float64
	}{{"red", c.Red}, {"green", c.Green}, {"blue", c.Blue}, {"alpha", c.Alpha}} {
		if err := errors.ValidateUnit(name+"."+ch.n, ch.v); err != nil {
			return err
		}
	}
	return nil
}

type colorObject struct {
	Red   float64  `json:"red" yaml:"red"`
	Green float64  `json:"green" yaml:"green"`
	Blue  float64  `json:"blue" yaml:"blue"`
	Alpha *float64 `json:"alpha" yaml:"alpha"`
}

func (o colorObject) color() Color {
	c := Color{Red: o.Red, Green: o.Green, Blue: o.Blue, Alpha: 1}
	if o.Alpha != nil {
		c.Alpha = *o.Alpha
	}
	return c
}

// UnmarshalJSON accepts the object form or a hex string. A missing alpha
// decodes as fully opaque.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseHex(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var o colorObject
	if err := json.Unmarshal(data, &o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid color")
	}
	*c = o.color()
	return nil
}

// UnmarshalYAML accepts the mapping form or a hex string.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseHex(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var o colorObject
	if err := node.Decode(&o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid color")
	}
	*c = o.color()
	return nil
}

// UnmarshalText accepts a hex string. Used by TOML theme files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
