package theme

import (
	"fmt"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Compile parses a CUE value into a ThemeSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the theme struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`theme: dark: { ... }`)
//	spec, err := theme.Compile(v.LookupPath(cue.ParsePath("theme.dark")))
func Compile(v cue.Value) (*ThemeSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ThemeSpec{
		Palette: map[string]string{},
		Fonts:   map[string]string{},
		Code:    Default().Code,
	}

	// Theme name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	if err := parsePalette(v, spec); err != nil {
		return nil, err
	}
	if err := parseFonts(v, spec); err != nil {
		return nil, err
	}
	if err := parseCode(v, spec); err != nil {
		return nil, err
	}

	return spec, nil
}

func parsePalette(v cue.Value, spec *ThemeSpec) error {
	paletteVal := v.LookupPath(cue.ParsePath("palette"))
	if !paletteVal.Exists() {
		return nil
	}

	iter, err := paletteVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		role := iter.Selector().String()
		if !ValidPaletteRoles[role] {
			return &CompileError{
				Field:   "palette",
				Message: fmt.Sprintf("unknown palette role %q", role),
				Pos:     iter.Value().Pos(),
			}
		}
		color, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		if !hexColorRe.MatchString(color) {
			return &CompileError{
				Field:   "palette." + role,
				Message: fmt.Sprintf("color %q is not #rrggbb", color),
				Pos:     iter.Value().Pos(),
			}
		}
		spec.Palette[role] = color
	}
	return nil
}

func parseFonts(v cue.Value, spec *ThemeSpec) error {
	fontsVal := v.LookupPath(cue.ParsePath("fonts"))
	if !fontsVal.Exists() {
		return nil
	}

	iter, err := fontsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		role := iter.Selector().String()
		if !ValidFontRoles[role] {
			return &CompileError{
				Field:   "fonts",
				Message: fmt.Sprintf("unknown font role %q", role),
				Pos:     iter.Value().Pos(),
			}
		}
		stack, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		spec.Fonts[role] = stack
	}
	return nil
}

func parseCode(v cue.Value, spec *ThemeSpec) error {
	codeVal := v.LookupPath(cue.ParsePath("code"))
	if !codeVal.Exists() {
		return nil
	}

	styleVal := codeVal.LookupPath(cue.ParsePath("style"))
	if styleVal.Exists() {
		style, err := styleVal.String()
		if err != nil {
			return formatCUEError(err)
		}
		if !isValidCodeStyle(style) {
			return &CompileError{
				Field:   "code.style",
				Message: fmt.Sprintf("invalid code style %q: must be one of %v", style, ValidCodeStyles),
				Pos:     styleVal.Pos(),
			}
		}
		spec.Code.Style = style
	}

	lnVal := codeVal.LookupPath(cue.ParsePath("line_numbers"))
	if lnVal.Exists() {
		ln, err := lnVal.Bool()
		if err != nil {
			return formatCUEError(err)
		}
		spec.Code.LineNumbers = ln
	}

	return nil
}

func isValidCodeStyle(style string) bool {
	for _, s := range ValidCodeStyles {
		if s == style {
			return true
		}
	}
	return false
}

// CompileError represents a theme compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
