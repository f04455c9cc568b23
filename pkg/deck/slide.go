package deck

import (
	"strings"
)

// SlideType names the planner a slide is routed to.
type SlideType string

// Slide types. Any other value is planned as content.
const (
	SlideTitle   SlideType = "title"
	SlideContent SlideType = "content"
	SlideClosing SlideType = "closing"
)

// DefaultClosingTitle is used when a closing slide has no title.
const DefaultClosingTitle = "Thank You"

// Slide is the abstract description of one slide.
type Slide struct {
	Type        SlideType `json:"type" yaml:"type"`
	Title       string    `json:"title" yaml:"title"`
	Content     string    `json:"content,omitempty" yaml:"content,omitempty"`
	Subtitle    string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	SlideNumber *int      `json:"slide_number,omitempty" yaml:"slide_number,omitempty"`
}

// Kind returns the effective slide type; unknown types map to content.
func (s Slide) Kind() SlideType {
	switch SlideType(strings.ToLower(strings.TrimSpace(string(s.Type)))) {
	case SlideTitle:
		return SlideTitle
	case SlideClosing:
		return SlideClosing
	default:
		return SlideContent
	}
}

// Number returns the explicit slide number, or fallback when unset.
func (s Slide) Number(fallback int) int {
	if s.SlideNumber != nil && *s.SlideNumber > 0 {
		return *s.SlideNumber
	}
	return fallback
}

// Footer returns the closing footer text: subtitle, else content.
func (s Slide) Footer() string {
	if t := strings.TrimSpace(s.Subtitle); t != "" {
		return t
	}
	return strings.TrimSpace(s.Content)
}

// IntPtr is a helper for building slides with explicit numbers.
func IntPtr(n int) *int { return &n }
