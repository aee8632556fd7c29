package translate

import (
	"md2doc/css"
	"md2doc/docmodel"
)

// Style is accumulated character formatting. It is a value, every merge
// returns new Style leaving the original intact.
type Style struct {
	Bold   bool
	Italic bool
	Strike bool
	Code   bool
}

// With returns style with formatting of the tag added. Tags without
// character formatting are transparent.
func (s Style) With(kind tagKind) Style {
	switch kind {
	case tagBold:
		s.Bold = true
	case tagItalic:
		s.Italic = true
	case tagStrike:
		s.Strike = true
	case tagCode:
		s.Code = true
	}
	return s
}

// WithCSS adds formatting expressed by inline style attribute.
func (s Style) WithCSS(f css.Formatting) Style {
	s.Bold = s.Bold || f.Bold
	s.Italic = s.Italic || f.Italic
	s.Strike = s.Strike || f.Strike
	s.Code = s.Code || f.Monospace
	return s
}

// run creates text run carrying the style.
func (s Style) run(text string, opts *Options) docmodel.Run {
	r := docmodel.Run{
		Text:   text,
		Bold:   s.Bold,
		Italic: s.Italic,
		Strike: s.Strike,
		Code:   s.Code,
	}
	if s.Code {
		r.FontSize = opts.CodeFontSize()
	}
	return r
}
