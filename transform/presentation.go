package transform

// presentationProps is the allowlist of SVG presentation properties: CSS
// properties that may equivalently be expressed as XML attributes on an SVG
// element. Only declarations for these properties are ever inlined. The
// table is read-only shared state and must not be mutated after init.
var presentationProps = map[string]bool{
	"alignment-baseline":           true,
	"baseline-shift":               true,
	"clip":                         true,
	"clip-path":                    true,
	"clip-rule":                    true,
	"color":                        true,
	"color-interpolation":          true,
	"color-interpolation-filters":  true,
	"color-profile":                true,
	"color-rendering":              true,
	"cursor":                       true,
	"direction":                    true,
	"display":                      true,
	"dominant-baseline":            true,
	"enable-background":            true,
	"fill":                         true,
	"fill-opacity":                 true,
	"fill-rule":                    true,
	"filter":                       true,
	"flood-color":                  true,
	"flood-opacity":                true,
	"font-family":                  true,
	"font-size":                    true,
	"font-size-adjust":             true,
	"font-stretch":                 true,
	"font-style":                   true,
	"font-variant":                 true,
	"font-weight":                  true,
	"glyph-orientation-horizontal": true,
	"glyph-orientation-vertical":   true,
	"image-rendering":              true,
	"kerning":                      true,
	"letter-spacing":               true,
	"lighting-color":               true,
	"marker":                       true,
	"marker-end":                   true,
	"marker-mid":                   true,
	"marker-start":                 true,
	"mask":                         true,
	"opacity":                      true,
	"overflow":                     true,
	"paint-order":                  true,
	"pointer-events":               true,
	"shape-rendering":              true,
	"stop-color":                   true,
	"stop-opacity":                 true,
	"stroke":                       true,
	"stroke-dasharray":             true,
	"stroke-dashoffset":            true,
	"stroke-linecap":               true,
	"stroke-linejoin":              true,
	"stroke-miterlimit":            true,
	"stroke-opacity":               true,
	"stroke-width":                 true,
	"text-anchor":                  true,
	"text-decoration":              true,
	"text-rendering":               true,
	"transform-origin":             true,
	"unicode-bidi":                 true,
	"vector-effect":                true,
	"visibility":                   true,
	"word-spacing":                 true,
	"writing-mode":                 true,
}
