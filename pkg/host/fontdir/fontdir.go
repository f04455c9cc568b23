// Package fontdir resolves font names against font files on disk.
//
// A Provider scans its directories once, on first use, and indexes every
// TrueType and OpenType font by file name, PostScript name and full name.
// The built-in Go fonts are always available. Handles can measure text,
// which lets hosts re-center text after insertion.
package fontdir

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/fonts"
	"github.com/matzehuels/slidesmith/pkg/host"
)

// maxScanDepth limits recursive directory traversal.
const maxScanDepth = 3

// maxFontFileSize skips font files larger than this.
const maxFontFileSize = 20 << 20

// Handle is a resolved font.
type Handle struct {
	name string
	data []byte
	font *sfnt.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// FontName implements host.FontHandle.
func (h *Handle) FontName() string { return h.name }

// Data returns the font file contents.
func (h *Handle) Data() []byte { return h.data }

// Measure returns the advance width of s at size.
func (h *Handle) Measure(s string, size float64) float64 {
	face, err := h.face(size)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, s)) / 64
}

func (h *Handle) face(size float64) (font.Face, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(h.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	if h.faces == nil {
		h.faces = make(map[float64]font.Face)
	}
	h.faces[size] = f
	return f, nil
}

// Provider implements host.FontProvider over font directories.
type Provider struct {
	dirs   []string
	logger *log.Logger

	once  sync.Once
	mu    sync.RWMutex
	fonts map[string]*Handle
}

// Option configures a Provider.
type Option func(*Provider)

// WithDirs adds directories to scan.
func WithDirs(dirs ...string) Option {
	return func(p *Provider) { p.dirs = append(p.dirs, dirs...) }
}

// WithoutSystemDirs scans only the directories given with WithDirs.
func WithoutSystemDirs() Option {
	return func(p *Provider) { p.dirs = nil }
}

// WithLogger sets the logger used to report unreadable font files.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a provider over the OS font directories plus any given with
// WithDirs.
func New(opts ...Option) *Provider {
	p := &Provider{
		dirs:   SystemDirs(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		fonts:  make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ host.FontProvider = (*Provider)(nil)

// ResolveFont implements host.FontProvider. Names match case-insensitively.
func (p *Provider) ResolveFont(ctx context.Context, name string) (host.FontHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(p.scan)

	key := strings.ToLower(strings.TrimSpace(name))
	p.mu.RLock()
	h, ok := p.fonts[key]
	p.mu.RUnlock()
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeFontUnavailable, host.ErrFontUnavailable, "font %q", name)
	}
	return h, nil
}

// Len returns the number of indexed names. Several names may refer to
// the same font.
func (p *Provider) Len() int {
	p.once.Do(p.scan)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.fonts)
}

// LoadFont registers font data under name and its internal names.
func (p *Provider) LoadFont(name string, data []byte) error {
	p.once.Do(p.scan)
	f, err := opentype.Parse(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAsset, err, "parse font %q", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.register(name, data, f)
	return nil
}

func (p *Provider) scan() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range fonts.Names() {
		data, _ := fonts.TTF(name)
		if f, err := opentype.Parse(data); err == nil {
			p.register(name, data, f)
		}
	}
	for _, dir := range p.dirs {
		p.scanDir(dir, 0)
	}
	p.logger.Debug("scanned fonts", "dirs", len(p.dirs), "names", len(p.fonts))
}

func (p *Provider) scanDir(dir string, depth int) {
	if depth > maxScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			p.scanDir(path, depth+1)
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			p.logger.Debug("skipping font", "path", path, "err", err)
			continue
		}
		p.register(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), data, f)
	}
}

// register indexes a font by the given name, its PostScript name and its
// full name. The first font registered under a key wins. Callers hold mu.
func (p *Provider) register(name string, data []byte, f *sfnt.Font) {
	h := &Handle{name: name, data: data, font: f}
	keys := []string{name}
	for _, id := range []sfnt.NameID{sfnt.NameIDPostScript, sfnt.NameIDFull} {
		if n, err := f.Name(nil, id); err == nil && n != "" {
			keys = append(keys, n)
		}
	}
	for _, k := range keys {
		k = strings.ToLower(k)
		if _, exists := p.fonts[k]; !exists {
			p.fonts[k] = h
		}
	}
}

// SystemDirs returns the OS font directories.
func SystemDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
		return dirs
	}
}
