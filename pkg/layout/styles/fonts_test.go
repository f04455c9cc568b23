package styles

import (
	"context"
	"testing"

	"github.com/matzehuels/slidesmith/pkg/deck"
)

type handle string

func (h handle) FontName() string { return string(h) }

type fakeProvider struct {
	known map[string]bool
	calls map[string]int
}

func (p *fakeProvider) ResolveFont(_ context.Context, name string) (FontHandle, error) {
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[name]++
	if p.known[name] {
		return handle(name), nil
	}
	return nil, ErrFontUnavailable
}

func TestResolveFontsAllAvailable(t *testing.T) {
	fs := ResolveFonts(context.Background(), nil, deck.FontClassic, nil)
	if got := fs.Name(FontBold); got != "Merriweather-Bold" {
		t.Errorf("bold = %q", got)
	}
	if got := fs.Name(FontLight); got != "Merriweather-Light" {
		t.Errorf("light = %q", got)
	}
	if len(fs.Fallbacks) != 0 {
		t.Errorf("fallbacks = %v", fs.Fallbacks)
	}
}

func TestResolveFontsFallback(t *testing.T) {
	tests := []struct {
		name  string
		known []string
		want  map[FontRole]string
	}{
		{
			name:  "light falls back to regular",
			known: []string{"Inter-Bold", "Inter-Regular"},
			want:  map[FontRole]string{FontBold: "Inter-Bold", FontRegular: "Inter-Regular", FontLight: "Inter-Regular"},
		},
		{
			name:  "bold falls back to family regular",
			known: []string{"Inter-Regular"},
			want:  map[FontRole]string{FontBold: "Inter-Regular", FontRegular: "Inter-Regular", FontLight: "Inter-Regular"},
		},
		{
			name:  "nothing known uses built-ins",
			known: nil,
			want:  map[FontRole]string{FontBold: DefaultBold, FontRegular: DefaultRegular, FontLight: DefaultRegular},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{known: map[string]bool{}}
			for _, k := range tt.known {
				p.known[k] = true
			}
			fs := ResolveFonts(context.Background(), p, deck.FontModern, nil)
			for role, want := range tt.want {
				if got := fs.Name(role); got != want {
					t.Errorf("Name(%s) = %q, want %q", role, got, want)
				}
			}
			for name, n := range p.calls {
				if n != 1 {
					t.Errorf("font %q queried %d times, want once", name, n)
				}
			}
		})
	}
}

func TestResolveFontsRecordsFallbacks(t *testing.T) {
	p := &fakeProvider{known: map[string]bool{"Caveat-Regular": true}}
	fs := ResolveFonts(context.Background(), p, deck.FontHandwritten, nil)
	if len(fs.Fallbacks) != 1 || fs.Fallbacks[0].Role != FontBold || fs.Fallbacks[0].Used != "Caveat-Regular" {
		t.Errorf("fallbacks = %+v", fs.Fallbacks)
	}
	if fs.Handle(FontRegular) == nil {
		t.Error("missing handle for resolved font")
	}
}

func TestFontSetNameDefaults(t *testing.T) {
	var fs FontSet
	if fs.Name(FontBold) != DefaultBold || fs.Name(FontLight) != DefaultRegular {
		t.Error("zero FontSet should use built-ins")
	}
	if FamilyFor("gothic") != Catalog[deck.FontModern] {
		t.Error("unknown style should use modern family")
	}
}
