package deck

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// DecorKind is the family of decorative shapes drawn on title and closing
// slides.
type DecorKind string

// Decoration families. Every theme has one; title slides always carry
// decorations.
const (
	DecorCircles DecorKind = "circles"
	DecorBlobs   DecorKind = "blobs"
	DecorGlass   DecorKind = "glass"
)

// BackgroundKind is a treatment drawn behind every slide of a run.
type BackgroundKind string

// Background treatments.
const (
	BackgroundPlain BackgroundKind = ""
	BackgroundGlass BackgroundKind = "glass"
)

// Align is a horizontal text alignment.
type Align string

// Alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Theme is a named bundle of color roles plus decoration choices.
type Theme struct {
	Name        string         `toml:"name" json:"name"`
	Description string         `toml:"description" json:"description,omitempty"`
	Decor       DecorKind      `toml:"decor" json:"decor"`
	Background  BackgroundKind `toml:"background" json:"background,omitempty"`
	TitleAlign  Align          `toml:"title_align" json:"titleAlign"`
	GlassCard   bool           `toml:"glass_card" json:"glassCard,omitempty"`
	Palette     TemplateColors `toml:"palette" json:"palette"`

	// Highlights tint the background treatment shapes. Empty means the
	// accent color is used.
	Highlights []Color `toml:"highlights" json:"highlights,omitempty"`
}

// HasBackground reports whether the theme prepends background elements.
func (t Theme) HasBackground() bool {
	return t.Background != BackgroundPlain
}

// Validate checks the theme fields.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New(errors.ErrCodeInvalidTheme, "theme name is required")
	}
	switch t.Decor {
	case DecorCircles, DecorBlobs, DecorGlass:
	default:
		return errors.New(errors.ErrCodeInvalidTheme, "theme %s: unknown decor %q", t.Name, t.Decor)
	}
	switch t.Background {
	case BackgroundPlain, BackgroundGlass:
	default:
		return errors.New(errors.ErrCodeInvalidTheme, "theme %s: unknown background %q", t.Name, t.Background)
	}
	switch t.TitleAlign {
	case AlignLeft, AlignCenter:
	default:
		return errors.New(errors.ErrCodeInvalidTheme, "theme %s: title_align must be left or center", t.Name)
	}
	if err := t.Palette.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTheme, err, "theme %s", t.Name)
	}
	return nil
}

func (t Theme) clone() Theme {
	t.Highlights = append([]Color(nil), t.Highlights...)
	return t
}

// DefaultPalette is the palette of the modern theme.
var DefaultPalette = TemplateColors{
	TitleBg:      RGB(0.1, 0.12, 0.18),
	ContentBg:    RGB(0.98, 0.98, 1),
	ClosingBg:    RGB(0.1, 0.12, 0.18),
	Accent:       RGB(0.39, 0.4, 0.95),
	TitleText:    RGB(1, 1, 1),
	BodyText:     RGB(0.2, 0.25, 0.3),
	SubtitleText: RGB(0.75, 0.78, 0.86),
}

var builtinThemes = []Theme{
	{
		Name:        "modern",
		Description: "Dark title slides, indigo accent, corner circles",
		Decor:       DecorCircles,
		TitleAlign:  AlignCenter,
		Palette:     DefaultPalette,
	},
	{
		Name:        "vibrant",
		Description: "Deep violet with hot pink accents",
		Decor:       DecorCircles,
		TitleAlign:  AlignLeft,
		Palette: TemplateColors{
			TitleBg:      MustHex("#2e1065"),
			ContentBg:    MustHex("#fdf4ff"),
			ClosingBg:    MustHex("#3b0764"),
			Accent:       MustHex("#ec4899"),
			TitleText:    MustHex("#ffffff"),
			BodyText:     MustHex("#3f3f46"),
			SubtitleText: MustHex("#f5d0fe"),
		},
	},
	{
		Name:        "sunset",
		Description: "Warm oranges over a dusky background",
		Decor:       DecorCircles,
		TitleAlign:  AlignCenter,
		Palette: TemplateColors{
			TitleBg:      MustHex("#431407"),
			ContentBg:    MustHex("#fff7ed"),
			ClosingBg:    MustHex("#7c2d12"),
			Accent:       MustHex("#f97316"),
			TitleText:    MustHex("#fff7ed"),
			BodyText:     MustHex("#44403c"),
			SubtitleText: MustHex("#fed7aa"),
		},
	},
	{
		Name:        "nature",
		Description: "Forest greens with organic blobs",
		Decor:       DecorBlobs,
		TitleAlign:  AlignLeft,
		Palette: TemplateColors{
			TitleBg:      MustHex("#14532d"),
			ContentBg:    MustHex("#f7fee7"),
			ClosingBg:    MustHex("#14532d"),
			Accent:       MustHex("#22c55e"),
			TitleText:    MustHex("#f0fdf4"),
			BodyText:     MustHex("#1c1917"),
			SubtitleText: MustHex("#bbf7d0"),
		},
	},
	{
		Name:        "glass",
		Description: "Frosted cards over pink and blue glows",
		Decor:       DecorGlass,
		Background:  BackgroundGlass,
		TitleAlign:  AlignCenter,
		GlassCard:   true,
		Palette: TemplateColors{
			TitleBg:      MustHex("#0f172a"),
			ContentBg:    MustHex("#f1f5f9"),
			ClosingBg:    MustHex("#0f172a"),
			Accent:       MustHex("#818cf8"),
			TitleText:    MustHex("#ffffff"),
			BodyText:     MustHex("#1e293b"),
			SubtitleText: MustHex("#cbd5e1"),
		},
		Highlights: []Color{RGB(1, 100.0/255, 150.0/255), RGB(100.0/255, 150.0/255, 1)},
	},
}

var (
	themesMu sync.RWMutex
	themes   = func() map[string]Theme {
		m := make(map[string]Theme, len(builtinThemes))
		for _, t := range builtinThemes {
			m[t.Name] = t
		}
		return m
	}()
)

// LookupTheme returns the named theme. Names are case-insensitive.
func LookupTheme(name string) (Theme, bool) {
	themesMu.RLock()
	defer themesMu.RUnlock()
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, false
	}
	return t.clone(), true
}

// ThemeNames returns all registered theme names, sorted.
func ThemeNames() []string {
	themesMu.RLock()
	defer themesMu.RUnlock()
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Themes returns all registered themes sorted by name.
func Themes() []Theme {
	names := ThemeNames()
	out := make([]Theme, 0, len(names))
	for _, n := range names {
		t, _ := LookupTheme(n)
		out = append(out, t)
	}
	return out
}

// RegisterTheme adds or replaces a theme after validating it.
func RegisterTheme(t Theme) error {
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))
	if err := t.Validate(); err != nil {
		return err
	}
	themesMu.Lock()
	defer themesMu.Unlock()
	themes[t.Name] = t.clone()
	return nil
}

// ParseTheme decodes a TOML theme. A theme may name a registered base with
// `extends`; keys it does not set keep the base values.
//
//	name = "midnight"
//	extends = "glass"
//	title_align = "left"
//
//	[palette]
//	accent = "#22d3ee"
func ParseTheme(r io.Reader) (Theme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read theme")
	}
	var head struct {
		Extends string `toml:"extends"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme")
	}
	if head.Extends == "" {
		head.Extends = DefaultThemeName
	}
	base, ok := LookupTheme(head.Extends)
	if !ok {
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "extends unknown theme %q", head.Extends)
	}

	theme := base
	theme.Name = ""
	md, err := toml.Decode(string(data), &theme)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme")
	}
	for _, key := range md.Undecoded() {
		if key.String() != "extends" {
			return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme key %q", key.String())
		}
	}
	theme.Name = strings.ToLower(strings.TrimSpace(theme.Name))
	if err := theme.Validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// LoadTheme parses a TOML theme file and registers it.
func LoadTheme(path string) (Theme, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Theme{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "open theme %s", path)
	}
	defer f.Close()

	theme, err := ParseTheme(f)
	if err != nil {
		return Theme{}, err
	}
	if err := RegisterTheme(theme); err != nil {
		return Theme{}, err
	}
	return theme, nil
}
