package translate

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/net/html"

	"md2doc/docmodel"
)

// buildNodes builds blocks from sibling nodes. Consecutive inline nodes are
// gathered into one paragraph, so text and formatting outside of explicit
// paragraphs are kept.
func (t *Translator) buildNodes(nodes []*html.Node) []docmodel.Block {
	var (
		blocks  []docmodel.Block
		pending []*html.Node
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if runs := trimEdges(t.inlineRuns(pending, Style{}, false)); hasContent(runs) {
			blocks = append(blocks, docmodel.NewParagraph(runs, t.opts.spacing()))
		}
		pending = nil
	}

	for _, n := range nodes {
		if isInline(n) {
			pending = append(pending, n)
			continue
		}
		flush()
		blocks = append(blocks, t.buildBlock(n)...)
	}
	flush()
	return blocks
}

func (t *Translator) buildChildren(n *html.Node) []docmodel.Block {
	return t.buildNodes(children(n))
}

// buildBlock dispatches single block level element.
func (t *Translator) buildBlock(n *html.Node) []docmodel.Block {
	if n.Type != html.ElementNode {
		if n.Type == html.DocumentNode {
			return t.buildChildren(n)
		}
		return nil
	}

	switch kind := classify(n); kind {
	case tagIgnored:
		return nil
	case tagHeading:
		return []docmodel.Block{t.heading(n)}
	case tagParagraph:
		runs := trimEdges(t.inlineRuns(children(n), t.elementStyle(n, kind, Style{}), false))
		if !hasContent(runs) {
			return nil
		}
		return []docmodel.Block{docmodel.NewParagraph(runs, t.opts.spacing())}
	case tagDefTerm:
		style := t.elementStyle(n, kind, Style{Bold: true})
		runs := trimEdges(t.inlineRuns(children(n), style, false))
		if !hasContent(runs) {
			return nil
		}
		return []docmodel.Block{docmodel.NewParagraph(runs, t.opts.spacing())}
	case tagList:
		return t.buildList(n, 0)
	case tagListItem:
		// stray item outside of any list
		return t.listItem(n, false, 0)
	case tagTable:
		return t.buildTable(n)
	case tagPre:
		return []docmodel.Block{codeBlock(n)}
	case tagBlockquote:
		content := t.buildChildren(n)
		if len(content) == 0 {
			return nil
		}
		return []docmodel.Block{docmodel.NewBlockQuote(content)}
	case tagRule:
		return []docmodel.Block{docmodel.NewThematicBreak()}
	case tagTableSection, tagRow, tagCell, tagUnknown:
		return t.buildChildren(n)
	default:
		// inline element reached through block dispatch
		return t.buildNodes([]*html.Node{n})
	}
}

func (t *Translator) heading(n *html.Node) docmodel.Block {
	level, _ := strconv.Atoi(n.Data[1:])
	runs := trimEdges(t.inlineRuns(children(n), t.elementStyle(n, tagHeading, Style{}), false))

	anchor := strings.TrimSpace(attrValue(n, "id"))
	if anchor == "" {
		anchor = slug.Make(docmodel.RunsText(runs))
	}
	return docmodel.NewHeading(level, t.uniqueAnchor(anchor), runs)
}

// uniqueAnchor makes sure every anchor is used only once in the document,
// suffixed forms included.
func (t *Translator) uniqueAnchor(anchor string) string {
	if anchor == "" {
		return ""
	}
	candidate := anchor
	n := t.anchors[anchor]
	for ; ; n++ {
		if n > 0 {
			candidate = anchor + "-" + strconv.Itoa(n)
		}
		if _, used := t.anchors[candidate]; !used {
			break
		}
	}
	t.anchors[anchor] = n + 1
	if candidate != anchor {
		t.anchors[candidate] = 1
	}
	return candidate
}

// codeBlock keeps text verbatim. Language comes from the first
// "language-<name>" class of nested code element.
func codeBlock(n *html.Node) docmodel.Block {
	src := n
	if code := findFirst(n, tagCode); code != nil {
		src = code
	}
	var lang string
	for _, class := range strings.Fields(attrValue(src, "class")) {
		if l, ok := strings.CutPrefix(class, "language-"); ok && l != "" {
			lang = l
			break
		}
	}
	return docmodel.NewCodeBlock(lang, textContent(src))
}

// findFirst returns first descendant of requested kind in document order.
func findFirst(n *html.Node, kind tagKind) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if classify(c) == kind {
			return c
		}
		if found := findFirst(c, kind); found != nil {
			return found
		}
	}
	return nil
}
