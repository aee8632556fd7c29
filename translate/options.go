package translate

import (
	"md2doc/config"
	"md2doc/docmodel"
)

// Options are read-only parameters threaded through the builders. Sizes are
// in points.
type Options struct {
	FontSize         float64
	CodeFontDelta    float64
	MinCodeFontSize  float64
	LineSpacing      float64
	ParagraphSpacing float64
	// BaseURL is used to resolve relative hyperlinks, may be empty.
	BaseURL string
}

// DefaultOptions match configuration defaults.
func DefaultOptions() Options {
	return Options{
		FontSize:         12,
		CodeFontDelta:    2,
		MinCodeFontSize:  6,
		LineSpacing:      1.15,
		ParagraphSpacing: 8,
	}
}

func OptionsFromConfig(cfg *config.DocumentConfig) Options {
	return Options{
		FontSize:         cfg.Style.FontSize,
		CodeFontDelta:    cfg.Style.CodeFontDelta,
		MinCodeFontSize:  cfg.Style.MinCodeFontSize,
		LineSpacing:      cfg.Style.LineSpacing,
		ParagraphSpacing: cfg.Style.ParagraphSpacing,
		BaseURL:          cfg.Output.BaseURL,
	}
}

// CodeFontSize returns narrowed font size for code, never below minimum.
func (o Options) CodeFontSize() float64 {
	return max(o.FontSize-o.CodeFontDelta, o.MinCodeFontSize)
}

func (o Options) spacing() docmodel.Spacing {
	return docmodel.Spacing{Line: o.LineSpacing, After: o.ParagraphSpacing}
}
