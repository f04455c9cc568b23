// Package styles resolves abstract color and font requests into concrete
// fill, stroke and font descriptors.
//
// Color helpers never shift hue: an opacity override replaces the alpha
// channel only. Font resolution maps a role (bold, regular, light) and the
// presentation's font style to a font name, then confirms availability
// through a [FontProvider] once per run. An unavailable font degrades to the
// family's regular weight and then to a built-in default; it never fails.
package styles
