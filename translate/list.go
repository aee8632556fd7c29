package translate

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"md2doc/docmodel"
)

const listErrorText = "[list processing error]"

// buildList emits items of the list in document order, nested lists follow
// their parent item one level deeper. Failure is contained to this list.
func (t *Translator) buildList(n *html.Node, level int) (blocks []docmodel.Block) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("Unable to process list", zap.Int("level", level), zap.Any("panic", r), zap.Stack("stack"))
			blocks = []docmodel.Block{docmodel.NewPlaceholder(listErrorText)}
		}
	}()

	ordered := n.DataAtom == atom.Ol
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if classify(c) == tagListItem {
			blocks = append(blocks, t.listItem(c, ordered, level)...)
			continue
		}
		// malformed list content is kept as is
		blocks = append(blocks, t.buildNodes([]*html.Node{c})...)
	}
	return blocks
}

// listItem splits item children structurally: nested lists are built after
// the item, everything else becomes item own inline content. Paragraphs of
// loose items are separated by line breaks.
func (t *Translator) listItem(li *html.Node, ordered bool, level int) []docmodel.Block {
	var (
		own    []*html.Node
		nested []*html.Node
	)
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if classify(c) == tagList {
			nested = append(nested, c)
			continue
		}
		own = append(own, c)
	}

	style := t.elementStyle(li, tagListItem, Style{})
	item := docmodel.ListItem{
		Runs:            trimEdges(t.itemRuns(own, style)),
		Ordered:         ordered,
		Level:           level,
		HasContinuation: len(nested) > 0,
		Spacing:         t.opts.spacing(),
	}
	if item.HasContinuation {
		item.Spacing.After = 0
	}

	blocks := []docmodel.Block{docmodel.NewListItem(item)}
	for _, l := range nested {
		blocks = append(blocks, t.buildList(l, level+1)...)
	}
	return blocks
}

// itemRuns builds inline content of list item, block children (paragraphs of
// loose lists and alike) are flattened with line breaks between them.
func (t *Translator) itemRuns(nodes []*html.Node, style Style) []docmodel.Run {
	var (
		runs    []docmodel.Run
		pending []*html.Node
	)
	appendRuns := func(more []docmodel.Run) {
		more = trimEdges(more)
		if !hasContent(more) {
			return
		}
		if len(runs) > 0 {
			runs = append(runs, docmodel.Run{LineBreak: true})
		}
		runs = append(runs, more...)
	}
	flush := func() {
		if len(pending) > 0 {
			appendRuns(t.inlineRuns(pending, style, false))
			pending = nil
		}
	}

	for _, n := range nodes {
		if isInline(n) {
			pending = append(pending, n)
			continue
		}
		flush()
		if n.Type == html.ElementNode {
			appendRuns(t.inlineRuns(children(n), t.elementStyle(n, classify(n), style), false))
		}
	}
	flush()
	return runs
}
