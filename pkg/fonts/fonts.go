// Package fonts provides the built-in fallback fonts.
//
// The Go font family ships inside golang.org/x/image, so these fonts are
// always available without touching the file system. Every font style
// falls back to them when the system has none of its preferred fonts.
package fonts

import (
	"encoding/base64"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// Built-in font names.
const (
	Regular = "Go-Regular"
	Bold    = "Go-Bold"
	Medium  = "Go-Medium"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
	Medium:  gomedium.TTF,
}

// TTF returns the TrueType data of a built-in font.
func TTF(name string) ([]byte, bool) {
	data, ok := builtin[name]
	return data, ok
}

// IsBuiltin reports whether name is one of the built-in fonts.
func IsBuiltin(name string) bool {
	_, ok := builtin[name]
	return ok
}

// Names returns the built-in font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cache for base64-encoded fonts (computed once per font on first access).
var (
	b64Mu sync.Mutex
	b64   = map[string]string{}
)

// Base64 returns the TTF data of a built-in font as a base64 string, for
// embedding in SVG @font-face rules. It returns "" for unknown names.
func Base64(name string) string {
	data, ok := builtin[name]
	if !ok {
		return ""
	}
	b64Mu.Lock()
	defer b64Mu.Unlock()
	if s, ok := b64[name]; ok {
		return s
	}
	s := base64.StdEncoding.EncodeToString(data)
	b64[name] = s
	return s
}

// FallbackFontFamily is appended to every CSS font-family list.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// CSSFamily returns a CSS font-family list that prefers name.
func CSSFamily(name string) string {
	if name == "" {
		return FallbackFontFamily
	}
	return "'" + name + "', " + FallbackFontFamily
}
