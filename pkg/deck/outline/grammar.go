// Package outline parses the compact slide outline format.
//
// An outline is a plain-text alternative to the JSON input document:
//
//	deck "Quarterly Review" {
//	  settings {
//	    theme: glass
//	    layout: mixed
//	    brand: #6366f1
//	    source: "https://example.com/post"
//	  }
//
//	  title "Quarterly Review" {
//	    subtitle: "Q3 in numbers"
//	  }
//
//	  content "Wins" {
//	    "Shipped the v2 editor"
//	    "Halved p99 latency"
//	  }
//
//	  closing {
//	    footer: "Questions?"
//	  }
//	}
//
// Bare strings inside a slide block become content lines. Any slide kind
// other than title and closing is planned as a content slide.
package outline

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	outlineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(outlineLexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// File is the root of an outline document.
type File struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  *string        `parser:"Newline* 'deck' @String?"`
	Items []*Item        `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Item is either the settings block or a slide.
type Item struct {
	Settings *Block `parser:"  'settings' @@"`
	Slide    *Slide `parser:"| @@"`
}

// Slide declares one slide: a kind, an optional title and an optional body.
type Slide struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"@Ident"`
	Title *string        `parser:"@String?"`
	Body  *Block         `parser:"@@?"`
}

// Block is a braced list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is a key/value entry or a bare text line.
type Statement struct {
	Entry *Entry  `parser:"  @@"`
	Line  *string `parser:"| @String"`
}

// Entry is a `key: value` assignment.
type Entry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a scalar property value.
type Value struct {
	String *string  `parser:"  @String"`
	Number *float64 `parser:"| @Number"`
	Color  *string  `parser:"| @Color"`
	Ident  *string  `parser:"| @Ident"`
}

// Text returns the value as a string regardless of its token kind.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return *v.String
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}
