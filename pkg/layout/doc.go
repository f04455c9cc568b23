// Package layout defines the output of slide planning and the heuristic
// text measurement it relies on.
//
// A [Plan] is the ordered list of [Element] values for exactly one slide.
// Draw order is list order: later elements paint over earlier ones. Plans
// are plain data; sinks and host bindings turn them into pages.
//
// # Text measurement
//
// Text is never measured with real glyph metrics. A line of n characters at
// font size s is assumed to be n × s × [CharWidthFactor] wide, and [Wrap]
// breaks text greedily against the character budget that follows from it.
// The same constant drives every planner, so wrap decisions are
// reproducible across hosts and fonts.
package layout
