// Package markdown turns markdown (or hypertext) source into parsed
// hypertext tree ready for translation.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"md2doc/config"
)

// Result is parsed source document.
type Result struct {
	// Meta is front matter flattened to strings.
	Meta map[string]string
	// Title from front matter, may be empty.
	Title string
	// HTML is intermediate hypertext rendered from markdown.
	HTML []byte
	// Root is document node of parsed hypertext tree.
	Root *html.Node
}

// Parser wraps goldmark engine configured once and reused for every
// document, goldmark instances are safe for concurrent use.
type Parser struct {
	engine      goldmark.Markdown
	frontMatter bool
	log         *zap.Logger
}

func NewParser(cfg *config.MarkdownConfig, log *zap.Logger) *Parser {
	return &Parser{
		engine:      newEngine(cfg),
		frontMatter: cfg.FrontMatter,
		log:         log.Named("markdown"),
	}
}

// Parse renders markdown source into hypertext and parses it into a tree.
// Source in legacy encodings is converted to UTF-8 first.
func (p *Parser) Parse(data []byte) (*Result, error) {
	src, enc, err := decode(data)
	if err != nil {
		return nil, err
	}
	if enc != "" {
		p.log.Debug("Source converted to UTF-8", zap.String("encoding", enc))
	}

	res := &Result{}
	if p.frontMatter {
		meta, body, err := parseFrontMatter(src)
		if err != nil {
			p.log.Warn("Unable to parse front matter, using whole source as body", zap.Error(err))
		} else {
			res.Meta, src = meta, body
			res.Title = meta["title"]
		}
	}

	var buf bytes.Buffer
	if err := p.engine.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	res.HTML = buf.Bytes()

	if res.Root, err = html.Parse(bytes.NewReader(res.HTML)); err != nil {
		return nil, fmt.Errorf("unable to parse rendered html: %w", err)
	}
	return res, nil
}

// ParseHTML parses hypertext source directly, markdown rendering is skipped.
func (p *Parser) ParseHTML(data []byte) (*Result, error) {
	root, err := parseHTML(data)
	if err != nil {
		return nil, err
	}
	res := &Result{HTML: data, Root: root}
	res.Title = headTitle(root)
	return res, nil
}

func newEngine(cfg *config.MarkdownConfig) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if cfg.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	if cfg.UnsafeHTML {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(cfg.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions maps configured names to goldmark extenders, unknown and
// repeated names are ignored.
func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}
