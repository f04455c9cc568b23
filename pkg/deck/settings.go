package deck

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slidesmith/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSlideWidth is the default canvas width in points.
	DefaultSlideWidth = 1920.0

	// DefaultSlideHeight is the default canvas height in points.
	DefaultSlideHeight = 1080.0

	// DefaultThemeName is the theme applied when none is named.
	DefaultThemeName = "modern"
)

// DefaultFontSizes are the base sizes used when a size is not given.
var DefaultFontSizes = FontSizes{Title: 96, Subtitle: 40, Heading: 56, Body: 28}

// LayoutStyle selects how content slides are skinned.
type LayoutStyle string

// Layout styles.
const (
	LayoutMixed   LayoutStyle = "mixed"
	LayoutCard    LayoutStyle = "card"
	LayoutSplit   LayoutStyle = "split"
	LayoutClassic LayoutStyle = "classic"
)

// FontStyle selects the font family used for every text role.
type FontStyle string

// Font styles.
const (
	FontModern      FontStyle = "modern"
	FontClassic     FontStyle = "classic"
	FontHandwritten FontStyle = "handwritten"
)

// =============================================================================
// Settings
// =============================================================================

// TemplateColors holds the seven color roles of a presentation.
type TemplateColors struct {
	TitleBg      Color `json:"titleBg" yaml:"titleBg" toml:"titleBg"`
	ContentBg    Color `json:"contentBg" yaml:"contentBg" toml:"contentBg"`
	ClosingBg    Color `json:"closingBg" yaml:"closingBg" toml:"closingBg"`
	Accent       Color `json:"accent" yaml:"accent" toml:"accent"`
	TitleText    Color `json:"titleText" yaml:"titleText" toml:"titleText"`
	BodyText     Color `json:"bodyText" yaml:"bodyText" toml:"bodyText"`
	SubtitleText Color `json:"subtitleText" yaml:"subtitleText" toml:"subtitleText"`
}

// ColorRoles lists the role names in declaration order.
var ColorRoles = []string{"titleBg", "contentBg", "closingBg", "accent", "titleText", "bodyText", "subtitleText"}

// partialColors mirrors TemplateColors with optional fields so decoders can
// report which roles are missing.
type partialColors struct {
	TitleBg      *Color `json:"titleBg" yaml:"titleBg"`
	ContentBg    *Color `json:"contentBg" yaml:"contentBg"`
	ClosingBg    *Color `json:"closingBg" yaml:"closingBg"`
	Accent       *Color `json:"accent" yaml:"accent"`
	TitleText    *Color `json:"titleText" yaml:"titleText"`
	BodyText     *Color `json:"bodyText" yaml:"bodyText"`
	SubtitleText *Color `json:"subtitleText" yaml:"subtitleText"`
}

func (p partialColors) resolve() (TemplateColors, error) {
	roles := map[string]*Color{
		"titleBg": p.TitleBg, "contentBg": p.ContentBg, "closingBg": p.ClosingBg,
		"accent": p.Accent, "titleText": p.TitleText, "bodyText": p.BodyText,
		"subtitleText": p.SubtitleText,
	}
	var missing []string
	for name, c := range roles {
		if c == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return TemplateColors{}, errors.New(errors.ErrCodeInvalidSettings,
			"colors: missing roles %s", strings.Join(missing, ", "))
	}
	return TemplateColors{
		TitleBg: *p.TitleBg, ContentBg: *p.ContentBg, ClosingBg: *p.ClosingBg,
		Accent: *p.Accent, TitleText: *p.TitleText, BodyText: *p.BodyText,
		SubtitleText: *p.SubtitleText,
	}, nil
}

// UnmarshalJSON rejects color sets that omit any role.
func (t *TemplateColors) UnmarshalJSON(data []byte) error {
	var p partialColors
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	resolved, err := p.resolve()
	if err != nil {
		return err
	}
	*t = resolved
	return nil
}

// UnmarshalYAML rejects color sets that omit any role.
func (t *TemplateColors) UnmarshalYAML(node *yaml.Node) error {
	var p partialColors
	if err := node.Decode(&p); err != nil {
		return err
	}
	resolved, err := p.resolve()
	if err != nil {
		return err
	}
	*t = resolved
	return nil
}

// Validate checks every color role.
func (t TemplateColors) Validate() error {
	for i, c := range []Color{t.TitleBg, t.ContentBg, t.ClosingBg, t.Accent, t.TitleText, t.BodyText, t.SubtitleText} {
		if err := c.Validate("colors." + ColorRoles[i]); err != nil {
			return err
		}
	}
	return nil
}

// FontSizes holds the base font size per text role.
type FontSizes struct {
	Title    float64 `json:"title" yaml:"title"`
	Subtitle float64 `json:"subtitle" yaml:"subtitle"`
	Heading  float64 `json:"heading" yaml:"heading"`
	Body     float64 `json:"body" yaml:"body"`
}

// AssetRef references a binary asset either by file path or by inline
// base64 data. Data may carry a "data:<type>;base64," prefix.
type AssetRef struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Data string `json:"data,omitempty" yaml:"data,omitempty"`
}

// IsZero reports whether the reference names nothing.
func (a *AssetRef) IsZero() bool {
	return a == nil || (a.Path == "" && a.Data == "")
}

// Bytes loads the referenced asset.
func (a *AssetRef) Bytes() ([]byte, error) {
	if a.IsZero() {
		return nil, errors.New(errors.ErrCodeAsset, "empty asset reference")
	}
	if a.Data != "" {
		data := a.Data
		if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
			data = data[i+1:]
		}
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeAsset, err, "decode inline asset")
		}
		return b, nil
	}
	if err := errors.ValidatePath(a.Path); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAsset, err, "read asset %s", a.Path)
	}
	return b, nil
}

// Settings configures one composition run.
type Settings struct {
	// Colors are the seven color roles. Nil means the theme palette.
	Colors *TemplateColors `json:"colors,omitempty" yaml:"colors,omitempty"`

	SlideWidth  float64     `json:"slideWidth,omitempty" yaml:"slideWidth,omitempty"`
	SlideHeight float64     `json:"slideHeight,omitempty" yaml:"slideHeight,omitempty"`
	FontSizes   FontSizes   `json:"fontSizes" yaml:"fontSizes"`
	LayoutStyle LayoutStyle `json:"layoutStyle,omitempty" yaml:"layoutStyle,omitempty"`
	FontStyle   FontStyle   `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"`

	// BrandColor replaces the accent role for the whole run.
	BrandColor *Color `json:"brandColor,omitempty" yaml:"brandColor,omitempty"`

	// BrandLogo is drawn bottom-right on every slide.
	BrandLogo *AssetRef `json:"brandLogo,omitempty" yaml:"brandLogo,omitempty"`

	// Theme names the decoration and background treatment.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`

	// SourceURL, when set, is rendered as a QR code on closing slides.
	SourceURL string `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// SetDefaults fills unset fields. It never overrides explicit values.
func (s *Settings) SetDefaults() {
	if s.SlideWidth == 0 {
		s.SlideWidth = DefaultSlideWidth
	}
	if s.SlideHeight == 0 {
		s.SlideHeight = DefaultSlideHeight
	}
	if s.FontSizes.Title == 0 {
		s.FontSizes.Title = DefaultFontSizes.Title
	}
	if s.FontSizes.Subtitle == 0 {
		s.FontSizes.Subtitle = DefaultFontSizes.Subtitle
	}
	if s.FontSizes.Heading == 0 {
		s.FontSizes.Heading = DefaultFontSizes.Heading
	}
	if s.FontSizes.Body == 0 {
		s.FontSizes.Body = DefaultFontSizes.Body
	}
	if s.LayoutStyle == "" {
		s.LayoutStyle = LayoutMixed
	}
	if s.FontStyle == "" {
		s.FontStyle = FontModern
	}
	if s.Theme == "" {
		s.Theme = DefaultThemeName
	}
}

// Validate checks the settings after defaults have been applied.
func (s *Settings) Validate() error {
	if err := errors.ValidateDimension("slideWidth", s.SlideWidth); err != nil {
		return err
	}
	if err := errors.ValidateDimension("slideHeight", s.SlideHeight); err != nil {
		return err
	}
	for _, fs := range []struct {
		name string
		v    float64
	}{
		{"fontSizes.title", s.FontSizes.Title},
		{"fontSizes.subtitle", s.FontSizes.Subtitle},
		{"fontSizes.heading", s.FontSizes.Heading},
		{"fontSizes.body", s.FontSizes.Body},
	} {
		if err := errors.ValidateDimension(fs.name, fs.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateOneOf("layoutStyle", string(s.LayoutStyle),
		string(LayoutMixed), string(LayoutCard), string(LayoutSplit), string(LayoutClassic)); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("fontStyle", string(s.FontStyle),
		string(FontModern), string(FontClassic), string(FontHandwritten)); err != nil {
		return err
	}
	if s.Colors != nil {
		if err := s.Colors.Validate(); err != nil {
			return err
		}
	}
	if s.BrandColor != nil {
		if err := s.BrandColor.Validate("brandColor"); err != nil {
			return err
		}
	}
	if s.SourceURL != "" {
		if err := errors.ValidateURL(s.SourceURL); err != nil {
			return err
		}
	}
	if s.Theme != "" {
		if _, ok := LookupTheme(s.Theme); !ok {
			return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (available: %s)",
				s.Theme, strings.Join(ThemeNames(), ", "))
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates.
func (s *Settings) ValidateAndSetDefaults() error {
	s.SetDefaults()
	return s.Validate()
}

// Palette returns the effective colors: explicit colors if given, otherwise
// the theme palette, with the brand color substituted for the accent.
func (s *Settings) Palette(theme Theme) TemplateColors {
	colors := theme.Palette
	if s.Colors != nil {
		colors = *s.Colors
	}
	if s.BrandColor != nil {
		colors.Accent = s.BrandColor.WithAlpha(1)
	}
	return colors
}

// MinSide returns min(slideWidth, slideHeight).
func (s *Settings) MinSide() float64 {
	if s.SlideWidth < s.SlideHeight {
		return s.SlideWidth
	}
	return s.SlideHeight
}

// String summarises the settings for log lines.
func (s *Settings) String() string {
	return fmt.Sprintf("%gx%g layout=%s font=%s theme=%s", s.SlideWidth, s.SlideHeight, s.LayoutStyle, s.FontStyle, s.Theme)
}
