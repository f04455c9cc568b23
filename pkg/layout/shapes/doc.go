// Package shapes builds path geometry for slide decorations.
//
// All builders are pure and work in the canvas's local space: origin at the
// top-left corner, x growing to the right, y growing downwards. A [Path] is
// an ordered list of drawing commands that sinks can emit as SVG path data
// or replay onto any vector API.
//
// # Builders
//
//   - [RoundedRect]: closed clockwise rectangle with circular corners
//   - [Wave]: alternating up/down bumps along a horizontal line
//   - [Blob]: organic rounded square from four quadratic curves
//   - [DiagonalStripe]: a straight line at a given angle
package shapes
