package css_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"md2doc/css"
)

func TestParser_ParseInline(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	decls := p.ParseInline("Font-Weight: 700; font-style: italic; margin-left: 1.5em; width: 50%; font-family: 'Courier New', monospace")

	if v := decls["font-weight"]; !v.IsNumeric() || v.Value != 700 {
		t.Errorf("font-weight = %+v", v)
	}
	if v := decls["font-style"]; !v.IsKeyword() || v.Keyword != "italic" {
		t.Errorf("font-style = %+v", v)
	}
	if v := decls["margin-left"]; v.Value != 1.5 || v.Unit != "em" {
		t.Errorf("margin-left = %+v", v)
	}
	if v := decls["width"]; v.Value != 50 || v.Unit != "%" {
		t.Errorf("width = %+v", v)
	}
	if v := decls["font-family"]; v.Raw == "" || v.IsNumeric() {
		t.Errorf("font-family = %+v", v)
	}
}

func TestParser_ParseInline_Malformed(t *testing.T) {
	p := css.NewParser(nil)

	tests := []struct {
		name  string
		style string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"garbage", "{{{ ;;; :::"},
		{"missing value", "font-weight:"},
		{"custom property", "--accent: red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := p.ParseInline(tt.style)
			if !decls.Formatting().IsZero() {
				t.Errorf("unexpected formatting from %q: %+v", tt.style, decls.Formatting())
			}
		})
	}
}

func TestDeclarations_Formatting(t *testing.T) {
	p := css.NewParser(nil)

	tests := []struct {
		name  string
		style string
		want  css.Formatting
	}{
		{"bold keyword", "font-weight: bold", css.Formatting{Bold: true}},
		{"bolder", "font-weight: bolder", css.Formatting{Bold: true}},
		{"numeric bold", "font-weight: 600", css.Formatting{Bold: true}},
		{"numeric normal", "font-weight: 400", css.Formatting{}},
		{"italic", "font-style: italic", css.Formatting{Italic: true}},
		{"oblique", "font-style: oblique", css.Formatting{Italic: true}},
		{"strike", "text-decoration: underline line-through", css.Formatting{Strike: true}},
		{"strike line", "text-decoration-line: line-through", css.Formatting{Strike: true}},
		{"monospace", "font-family: Consolas, sans-serif", css.Formatting{Monospace: true}},
		{"font shorthand", "font: italic bold 12px/30px Georgia, serif", css.Formatting{Bold: true, Italic: true}},
		{"colors ignored", "color: #ff0000; background: yellow", css.Formatting{}},
		{"later wins", "font-weight: bold; font-weight: normal", css.Formatting{}},
		{"weight normal", "font-weight: normal", css.Formatting{}},
		{"weight with unit", "font-weight: 700px", css.Formatting{}},
		{"style numeric", "font-style: 12px", css.Formatting{}},
		{"style oblique angle", "font-style: oblique 10deg", css.Formatting{Italic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ParseInline(tt.style).Formatting(); got != tt.want {
				t.Errorf("Formatting() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValue_IsKeyword(t *testing.T) {
	tests := []struct {
		name string
		v    css.Value
		want bool
	}{
		{"ident", css.Value{Raw: "bold", Keyword: "bold"}, true},
		{"number", css.Value{Raw: "700", Value: 700}, false},
		{"dimension", css.Value{Raw: "12px", Value: 12, Unit: "px"}, false},
		{"empty", css.Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsKeyword(); got != tt.want {
				t.Errorf("IsKeyword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_IsNumeric(t *testing.T) {
	tests := []struct {
		name string
		v    css.Value
		want bool
	}{
		{"unit", css.Value{Raw: "1em", Value: 1, Unit: "em"}, true},
		{"zero", css.Value{Raw: "0"}, true},
		{"keyword", css.Value{Raw: "bold", Keyword: "bold"}, false},
		{"empty", css.Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsNumeric(); got != tt.want {
				t.Errorf("IsNumeric() = %v, want %v", got, tt.want)
			}
		})
	}
}
