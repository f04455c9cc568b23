package outline

import (
	"io"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// ParseString parses outline source into its syntax tree.
func ParseString(src string) (*File, error) {
	f, err := fileParser.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse outline")
	}
	return f, nil
}

// Read parses an outline and converts it to an input document.
func Read(r io.Reader) (*deck.Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read outline")
	}
	f, err := ParseString(string(data))
	if err != nil {
		return nil, err
	}
	return f.Input()
}

// Input converts the syntax tree to an input document.
func (f *File) Input() (*deck.Input, error) {
	in := &deck.Input{}
	for _, item := range f.Items {
		if item.Settings != nil {
			if err := applySettings(&in.Settings, item.Settings); err != nil {
				return nil, err
			}
		}
	}
	for _, item := range f.Items {
		if item.Slide == nil {
			continue
		}
		s, err := item.Slide.slide()
		if err != nil {
			return nil, err
		}
		in.Slides = append(in.Slides, s)
	}
	return in, nil
}

func (s *Slide) slide() (deck.Slide, error) {
	out := deck.Slide{Type: deck.SlideType(strings.ToLower(s.Kind))}
	if s.Title != nil {
		out.Title = *s.Title
	}
	if s.Body == nil {
		return out, nil
	}
	var lines []string
	for _, st := range s.Body.Statements {
		if st.Line != nil {
			lines = append(lines, *st.Line)
			continue
		}
		e := st.Entry
		switch strings.ToLower(e.Key) {
		case "subtitle", "footer":
			out.Subtitle = e.Value.Text()
		case "content", "body":
			lines = append(lines, e.Value.Text())
		case "title":
			out.Title = e.Value.Text()
		case "number":
			if e.Value.Number == nil {
				return deck.Slide{}, entryError(e, "number must be numeric")
			}
			out.SlideNumber = deck.IntPtr(int(*e.Value.Number))
		default:
			return deck.Slide{}, entryError(e, "unknown slide key %q", e.Key)
		}
	}
	out.Content = strings.Join(lines, "\n")
	return out, nil
}

func applySettings(s *deck.Settings, b *Block) error {
	overrides := map[string]deck.Color{}
	for _, st := range b.Statements {
		if st.Entry == nil {
			continue
		}
		e := st.Entry
		key := strings.ToLower(e.Key)
		switch key {
		case "theme":
			s.Theme = e.Value.Text()
		case "layout", "layoutstyle":
			s.LayoutStyle = deck.LayoutStyle(e.Value.Text())
		case "font", "fontstyle":
			s.FontStyle = deck.FontStyle(e.Value.Text())
		case "source", "sourceurl":
			s.SourceURL = e.Value.Text()
		case "logo":
			s.BrandLogo = &deck.AssetRef{Path: e.Value.Text()}
		case "brand", "brandcolor":
			c, err := color(e)
			if err != nil {
				return err
			}
			s.BrandColor = &c
		case "width", "height", "title", "subtitle", "heading", "body":
			if e.Value.Number == nil {
				return entryError(e, "%s must be numeric", e.Key)
			}
			n := *e.Value.Number
			switch key {
			case "width":
				s.SlideWidth = n
			case "height":
				s.SlideHeight = n
			case "title":
				s.FontSizes.Title = n
			case "subtitle":
				s.FontSizes.Subtitle = n
			case "heading":
				s.FontSizes.Heading = n
			case "body":
				s.FontSizes.Body = n
			}
		default:
			if !isRole(e.Key) {
				return entryError(e, "unknown setting %q", e.Key)
			}
			c, err := color(e)
			if err != nil {
				return err
			}
			overrides[e.Key] = c
		}
	}
	if len(overrides) == 0 {
		return nil
	}

	themeName := s.Theme
	if themeName == "" {
		themeName = deck.DefaultThemeName
	}
	theme, ok := deck.LookupTheme(themeName)
	if !ok {
		return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", themeName)
	}
	colors := theme.Palette
	for role, c := range overrides {
		setRole(&colors, role, c)
	}
	s.Colors = &colors
	return nil
}

func isRole(key string) bool {
	for _, r := range deck.ColorRoles {
		if r == key {
			return true
		}
	}
	return false
}

func setRole(tc *deck.TemplateColors, role string, c deck.Color) {
	switch role {
	case "titleBg":
		tc.TitleBg = c
	case "contentBg":
		tc.ContentBg = c
	case "closingBg":
		tc.ClosingBg = c
	case "accent":
		tc.Accent = c
	case "titleText":
		tc.TitleText = c
	case "bodyText":
		tc.BodyText = c
	case "subtitleText":
		tc.SubtitleText = c
	}
}

func color(e *Entry) (deck.Color, error) {
	c, err := deck.ParseHex(e.Value.Text())
	if err != nil {
		return deck.Color{}, entryError(e, "%s: invalid color %q", e.Key, e.Value.Text())
	}
	return c, nil
}

func entryError(e *Entry, format string, args ...any) error {
	err := errors.New(errors.ErrCodeInvalidInput, format, args...)
	err.Message = e.Pos.String() + ": " + err.Message
	return err
}
