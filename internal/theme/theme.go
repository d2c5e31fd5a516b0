// Package theme compiles presentation themes from CUE definitions.
//
// Themes are authored as CUE files:
//
//	theme: dark: {
//		palette: {background: "#1e1e1e", text: "#d4d4d4"}
//		fonts: {body: "Inter, sans-serif"}
//		code: {style: "dark", line_numbers: true}
//	}
//
// Missing fields fall back to the built-in default theme.
package theme

// ThemeSpec represents a compiled presentation theme.
type ThemeSpec struct {
	Name    string            `json:"name"`
	Palette map[string]string `json:"palette"` // role -> #rrggbb
	Fonts   map[string]string `json:"fonts"`   // role -> font stack
	Code    CodeStyle         `json:"code"`
}

// CodeStyle controls exhibit rendering.
type CodeStyle struct {
	Style       string `json:"style"` // "light" | "dark"
	LineNumbers bool   `json:"line_numbers"`
}

// Palette roles a theme may set. Diff roles style diff exhibit lines.
var ValidPaletteRoles = map[string]bool{
	"background": true,
	"text":       true,
	"accent":     true,
	"muted":      true,
	"add":        true,
	"del":        true,
	"hunk":       true,
}

// Font roles a theme may set.
var ValidFontRoles = map[string]bool{
	"body":    true,
	"heading": true,
	"code":    true,
}

// ValidCodeStyles defines the allowed code style values.
var ValidCodeStyles = []string{"light", "dark"}

// Default returns the built-in theme used when no theme directory is given
// or a deck names no theme.
func Default() *ThemeSpec {
	return &ThemeSpec{
		Name: "default",
		Palette: map[string]string{
			"background": "#ffffff",
			"text":       "#1a1a1a",
			"accent":     "#0969da",
			"muted":      "#6e7781",
			"add":        "#1a7f37",
			"del":        "#cf222e",
			"hunk":       "#8250df",
		},
		Fonts: map[string]string{
			"body":    "Georgia, serif",
			"heading": "Helvetica, Arial, sans-serif",
			"code":    "Menlo, Consolas, monospace",
		},
		Code: CodeStyle{Style: "light"},
	}
}

// Color returns the palette color for a role, falling back to the default
// theme when the role is unset.
func (t *ThemeSpec) Color(role string) string {
	if c, ok := t.Palette[role]; ok {
		return c
	}
	return Default().Palette[role]
}

// Font returns the font stack for a role, falling back to the default
// theme when the role is unset.
func (t *ThemeSpec) Font(role string) string {
	if f, ok := t.Fonts[role]; ok {
		return f
	}
	return Default().Fonts[role]
}
