package translate

import (
	"testing"

	"md2doc/css"
	"md2doc/docmodel"
)

func TestStyle_With(t *testing.T) {
	tests := []struct {
		kind tagKind
		want Style
	}{
		{tagBold, Style{Bold: true}},
		{tagItalic, Style{Italic: true}},
		{tagStrike, Style{Strike: true}},
		{tagCode, Style{Code: true}},
		{tagLink, Style{}},
		{tagUnknown, Style{}},
		{tagParagraph, Style{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := (Style{}).With(tt.kind); got != tt.want {
				t.Errorf("With(%s) = %+v, want %+v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestStyle_Laws(t *testing.T) {
	formatting := []tagKind{tagBold, tagItalic, tagStrike, tagCode, tagLink, tagUnknown}
	base := Style{Italic: true}

	for _, a := range formatting {
		once := base.With(a)
		if once.With(a) != once {
			t.Errorf("%s is not idempotent", a)
		}
		for _, b := range formatting {
			if base.With(a).With(b) != base.With(b).With(a) {
				t.Errorf("%s and %s do not commute", a, b)
			}
		}
	}
	if base != (Style{Italic: true}) {
		t.Errorf("merge mutated receiver: %+v", base)
	}
	if got := base.With(tagBold).WithCSS(css.Formatting{}); got != (Style{Bold: true, Italic: true}) {
		t.Errorf("empty css formatting changed style: %+v", got)
	}
	if got := base.WithCSS(css.Formatting{Monospace: true, Strike: true}); got != (Style{Italic: true, Code: true, Strike: true}) {
		t.Errorf("WithCSS = %+v", got)
	}
}

func TestStyle_Run(t *testing.T) {
	opts := DefaultOptions()
	if got := (Style{Bold: true}).run("x", &opts); got != (docmodel.Run{Text: "x", Bold: true}) {
		t.Errorf("run = %+v", got)
	}
	if got := (Style{Code: true}).run("x", &opts); got.FontSize != 10 || !got.Code {
		t.Errorf("code run = %+v", got)
	}
}
