// Package translate walks parsed hypertext tree and builds document content
// model from it.
//
// Translation is total: malformed structure is replaced with visibly marked
// placeholder paragraphs, unavailable images with their alternative text,
// and resulting document is never empty.
package translate

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"md2doc/css"
	"md2doc/docmodel"
)

const (
	noContentText     = "[no content]"
	documentErrorText = "[document processing error: %v]"
)

// ImageResolver produces image run (or placeholder) for image reference.
type ImageResolver interface {
	Resolve(src, alt string) docmodel.Run
}

// Translator is single threaded, use separate instance for every goroutine.
type Translator struct {
	opts    Options
	images  ImageResolver
	css     *css.Parser
	base    *url.URL
	anchors map[string]int
	log     *zap.Logger
}

// New creates translator. When images is nil all pictures become
// placeholders.
func New(opts Options, images ImageResolver, log *zap.Logger) *Translator {
	t := &Translator{
		opts:   opts,
		images: images,
		css:    css.NewParser(log),
		log:    log.Named("translate"),
	}
	if opts.BaseURL != "" {
		if u, err := url.Parse(opts.BaseURL); err == nil && u.IsAbs() {
			t.base = u
		} else {
			t.log.Warn("Ignoring base URL", zap.String("url", opts.BaseURL), zap.Error(err))
		}
	}
	return t
}

// Translate builds document from the tree. It never fails and never returns
// nil: problems are reported as placeholder paragraphs inside the document.
// Nil root is treated as empty input. Document title is the text of the first
// heading.
func (t *Translator) Translate(root *html.Node) (doc *docmodel.Document) {
	doc = &docmodel.Document{ID: newID()}
	t.anchors = make(map[string]int)

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("Unable to translate document", zap.Any("panic", r), zap.Stack("stack"))
			doc.Blocks = []docmodel.Block{docmodel.NewPlaceholder(fmt.Sprintf(documentErrorText, r))}
		}
	}()

	if root != nil {
		doc.Blocks = t.buildRoot(root)
	}
	if len(doc.Blocks) == 0 {
		doc.Blocks = []docmodel.Block{docmodel.NewPlaceholder(noContentText)}
	}
	if outline := doc.Outline(); len(outline) > 0 {
		doc.Title = outline[0].Title
	}
	t.log.Debug("Document translated", zap.String("id", doc.ID), zap.Int("blocks", len(doc.Blocks)))
	return doc
}

func (t *Translator) buildRoot(root *html.Node) []docmodel.Block {
	if body := findBody(root); body != nil {
		return t.buildChildren(body)
	}
	return t.buildNodes([]*html.Node{root})
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
