// Package variant picks the skin used for a content slide.
package variant

import (
	"fmt"

	"github.com/matzehuels/slidesmith/pkg/deck"
)

// Variant is a content-slide composition.
type Variant int

// Content variants. The zero value is not a valid variant.
const (
	Classic Variant = iota + 1
	Split
	Card
)

// Variants lists every variant in rotation order.
func Variants() []Variant {
	return []Variant{Classic, Split, Card}
}

func (v Variant) String() string {
	switch v {
	case Classic:
		return "classic"
	case Split:
		return "split"
	case Card:
		return "card"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Select returns the variant for the content slide at the given 1-based
// ordinal (counting content slides only). A layout style naming a variant
// always wins; mixed, and any unrecognised style, rotates
// classic → split → card. Ordinals below 1 are treated as 1.
func Select(style deck.LayoutStyle, ordinal int) Variant {
	switch style {
	case deck.LayoutClassic:
		return Classic
	case deck.LayoutSplit:
		return Split
	case deck.LayoutCard:
		return Card
	}
	if ordinal < 1 {
		ordinal = 1
	}
	switch ordinal % 3 {
	case 1:
		return Classic
	case 2:
		return Split
	default:
		return Card
	}
}

// ForSettings is Select applied to the settings' layout style.
func ForSettings(s deck.Settings, ordinal int) Variant {
	return Select(s.LayoutStyle, ordinal)
}
