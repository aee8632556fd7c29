// Package css interprets inline style attributes of hypertext elements.
package css

import (
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "line-through", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		first := rune(v.Raw[0])
		return unicode.IsDigit(first) || first == '.' || first == '-' || first == '+'
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declarations is a set of property declarations from single style
// attribute, property names are lower case. Later declarations win.
type Declarations map[string]Value

// Formatting is character formatting expressed by inline style.
type Formatting struct {
	Bold      bool
	Italic    bool
	Strike    bool
	Monospace bool
}

// IsZero reports whether style requests no formatting.
func (f Formatting) IsZero() bool {
	return f == Formatting{}
}

var monospaceFamilies = []string{"monospace", "courier", "consolas", "menlo", "monaco", "mono"}

// Formatting interprets declarations which map to character formatting.
// Everything else (colors, sizes, layout) is ignored.
func (d Declarations) Formatting() Formatting {
	var f Formatting

	if v, ok := d["font-weight"]; ok {
		switch {
		case v.IsKeyword():
			f.Bold = v.Keyword == "bold" || v.Keyword == "bolder"
		case v.IsNumeric() && v.Unit == "":
			f.Bold = v.Value >= 600
		}
	}
	if v, ok := d["font-style"]; ok && v.IsKeyword() {
		f.Italic = v.Keyword == "italic" || strings.HasPrefix(v.Keyword, "oblique")
	}
	for _, name := range []string{"text-decoration", "text-decoration-line"} {
		if v, ok := d[name]; ok && strings.Contains(strings.ToLower(v.Raw), "line-through") {
			f.Strike = true
		}
	}
	if v, ok := d["font-family"]; ok {
		family := strings.ToLower(v.Raw)
		for _, m := range monospaceFamilies {
			if strings.Contains(family, m) {
				f.Monospace = true
				break
			}
		}
	}
	if v, ok := d["font"]; ok {
		raw := strings.ToLower(v.Raw)
		for _, word := range strings.Fields(strings.NewReplacer(",", " ", "'", " ", `"`, " ").Replace(raw)) {
			switch word {
			case "bold", "bolder", "600", "700", "800", "900":
				f.Bold = true
			case "italic", "oblique":
				f.Italic = true
			case "monospace":
				f.Monospace = true
			}
		}
	}
	return f
}
