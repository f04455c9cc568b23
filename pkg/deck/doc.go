// Package deck defines the presentation input model: slides, settings,
// color roles, font sizes and named themes.
//
// All values in this package are plain data. They are owned by the caller
// and treated as read-only for the duration of one composition run.
//
// # Input formats
//
// A [Input] can be decoded from JSON ([ReadJSON]), YAML ([ReadYAML]) or,
// through the outline subpackage, from a compact plain-text outline. Colors
// accept either the object form {"red":0.1,"green":0.2,"blue":0.3} with
// channels in [0,1], or a hex string such as "#6366f1".
//
// # Themes
//
// A [Theme] bundles a default palette with a decoration family and an
// optional background treatment. Built-in themes are available through
// [LookupTheme]; additional ones can be loaded from TOML with [LoadTheme].
package deck
