package styles

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// FontRole is the weight a text element asks for.
type FontRole string

// Font roles.
const (
	FontBold    FontRole = "bold"
	FontRegular FontRole = "regular"
	FontLight   FontRole = "light"
)

// FontRoles lists the roles in resolution order.
var FontRoles = []FontRole{FontBold, FontRegular, FontLight}

// Built-in fonts that are always available to sinks.
const (
	DefaultRegular = "Go-Regular"
	DefaultBold    = "Go-Bold"
)

// Family names the font used for each role within one font style.
type Family struct {
	Bold    string `json:"bold"`
	Regular string `json:"regular"`
	Light   string `json:"light"`
}

// Name returns the font for role.
func (f Family) Name(role FontRole) string {
	switch role {
	case FontBold:
		return f.Bold
	case FontLight:
		return f.Light
	default:
		return f.Regular
	}
}

// Catalog maps each font style to its family.
var Catalog = map[deck.FontStyle]Family{
	deck.FontModern:      {Bold: "Inter-Bold", Regular: "Inter-Regular", Light: "Inter-Light"},
	deck.FontClassic:     {Bold: "Merriweather-Bold", Regular: "Merriweather-Regular", Light: "Merriweather-Light"},
	deck.FontHandwritten: {Bold: "Caveat-Bold", Regular: "Caveat-Regular", Light: "Caveat-Regular"},
}

// FamilyFor returns the catalog family for style, defaulting to modern.
func FamilyFor(style deck.FontStyle) Family {
	if f, ok := Catalog[style]; ok {
		return f
	}
	return Catalog[deck.FontModern]
}

// FontHandle is an opaque, host-provided font reference.
type FontHandle interface {
	FontName() string
}

// FontProvider confirms that a font can be used and returns its handle.
// Unavailable fonts are reported with an error; callers treat that error as
// recoverable.
type FontProvider interface {
	ResolveFont(ctx context.Context, name string) (FontHandle, error)
}

// ErrFontUnavailable reports that a provider does not know a font.
var ErrFontUnavailable = errors.New(errors.ErrCodeFontUnavailable, "font unavailable")

// Fallback records a role that did not get its requested font.
type Fallback struct {
	Role      FontRole `json:"role"`
	Requested string   `json:"requested"`
	Used      string   `json:"used"`
}

// FontSet is the per-run mapping from role to concrete font.
type FontSet struct {
	Style     deck.FontStyle        `json:"style"`
	Names     map[FontRole]string   `json:"names"`
	Fallbacks []Fallback            `json:"fallbacks,omitempty"`
	Handles   map[string]FontHandle `json:"-"`
}

// Name returns the resolved font for role, or the built-in regular font.
func (fs FontSet) Name(role FontRole) string {
	if n, ok := fs.Names[role]; ok && n != "" {
		return n
	}
	if role == FontBold {
		return DefaultBold
	}
	return DefaultRegular
}

// Handle returns the provider handle for the resolved font, if any.
func (fs FontSet) Handle(role FontRole) FontHandle {
	return fs.Handles[fs.Name(role)]
}

// DefaultFontSet returns a set that uses only the built-in fonts.
func DefaultFontSet() FontSet {
	return FontSet{
		Style: deck.FontModern,
		Names: map[FontRole]string{FontBold: DefaultBold, FontRegular: DefaultRegular, FontLight: DefaultRegular},
	}
}

// ResolveFonts resolves every role of style once. A nil provider accepts all
// catalog names. Each distinct name is queried at most once.
func ResolveFonts(ctx context.Context, provider FontProvider, style deck.FontStyle, logger *log.Logger) FontSet {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	family := FamilyFor(style)
	fs := FontSet{
		Style:   style,
		Names:   make(map[FontRole]string, len(FontRoles)),
		Handles: make(map[string]FontHandle),
	}

	tried := make(map[string]bool)
	available := func(name string) bool {
		if ok, seen := tried[name]; seen {
			return ok
		}
		if provider == nil {
			tried[name] = true
			return true
		}
		h, err := provider.ResolveFont(ctx, name)
		ok := err == nil
		if ok && h != nil {
			fs.Handles[name] = h
		}
		if !ok {
			logger.Warn("font unavailable", "font", name, "err", err)
		}
		tried[name] = ok
		return ok
	}

	for _, role := range FontRoles {
		requested := family.Name(role)
		builtin := DefaultRegular
		if role == FontBold {
			builtin = DefaultBold
		}
		candidates := []string{requested, family.Regular, builtin}

		used := builtin
		for _, name := range candidates {
			if name == builtin {
				// built-ins are embedded and need no confirmation, but a
				// provider that knows them may hand back a handle
				available(name)
				break
			}
			if available(name) {
				used = name
				break
			}
		}
		fs.Names[role] = used
		if used != requested {
			fs.Fallbacks = append(fs.Fallbacks, Fallback{Role: role, Requested: requested, Used: used})
			logger.Debug("font fallback", "role", role, "requested", requested, "used", used)
		}
	}
	return fs
}
