package docmodel

import (
	"maps"
	"slices"
	"strconv"

	"md2doc/utils/debug"
)

// Document is the root of content model. Blocks are in document order.
type Document struct {
	ID     string
	Title  string
	Meta   map[string]string
	Blocks []Block
}

// OutlineEntry describes single heading of the document.
type OutlineEntry struct {
	Level  int
	Title  string
	Anchor string
}

// Outline returns document headings in document order, headings nested in
// quotations and table cells are not part of the outline.
func (d *Document) Outline() []OutlineEntry {
	var out []OutlineEntry
	for i := range d.Blocks {
		if d.Blocks[i].Kind != BlockHeading {
			continue
		}
		h := d.Blocks[i].Heading
		out = append(out, OutlineEntry{Level: h.Level, Title: RunsText(h.Runs), Anchor: h.Anchor})
	}
	return out
}

// MetaKeys returns sorted meta data keys.
func (d *Document) MetaKeys() []string {
	return slices.Sorted(maps.Keys(d.Meta))
}

// String returns indented human readable dump of the document.
func (d *Document) String() string {
	tw := debug.NewTreeWriter()
	tw.Node(0, "document", "id", d.ID, "blocks", strconv.Itoa(len(d.Blocks)))
	if d.Title != "" {
		tw.TextBlock(1, "title", d.Title)
	}
	for _, k := range d.MetaKeys() {
		tw.TextBlock(1, "meta "+k, d.Meta[k])
	}
	dumpBlocks(tw, 1, d.Blocks)
	return tw.String()
}

func dumpBlocks(tw *debug.TreeWriter, depth int, blocks []Block) {
	for i := range blocks {
		dumpBlock(tw, depth, &blocks[i])
	}
}

func dumpBlock(tw *debug.TreeWriter, depth int, b *Block) {
	switch b.Kind {
	case BlockHeading:
		tw.Node(depth, "heading", "level", strconv.Itoa(b.Heading.Level), "anchor", b.Heading.Anchor)
		dumpRuns(tw, depth+1, b.Heading.Runs)
	case BlockParagraph:
		attrs := spacingAttrs(b.Paragraph.Spacing)
		if b.Paragraph.Placeholder {
			attrs = append(attrs, "placeholder")
		}
		tw.Node(depth, "paragraph", attrs...)
		dumpRuns(tw, depth+1, b.Paragraph.Runs)
	case BlockListItem:
		li := b.ListItem
		attrs := append([]string{"level", strconv.Itoa(li.Level), "ordered", strconv.FormatBool(li.Ordered)}, spacingAttrs(li.Spacing)...)
		if li.HasContinuation {
			attrs = append(attrs, "continued")
		}
		tw.Node(depth, "list-item", attrs...)
		dumpRuns(tw, depth+1, li.Runs)
	case BlockTable:
		tw.Node(depth, "table", "rows", strconv.Itoa(len(b.Table.Rows)), "columns", strconv.Itoa(b.Table.Columns()))
		for _, row := range b.Table.Rows {
			tw.Node(depth+1, "row")
			for _, cell := range row.Cells {
				attrs := []string{"shading", cell.Shading}
				if cell.Header {
					attrs = append(attrs, "header")
				}
				tw.Node(depth+2, "cell", attrs...)
				dumpBlocks(tw, depth+3, cell.Content)
			}
		}
	case BlockCode:
		tw.Node(depth, "code", "language", b.Code.Language)
		tw.TextBlock(depth+1, "text", b.Code.Text)
	case BlockQuote:
		tw.Node(depth, "blockquote")
		dumpBlocks(tw, depth+1, b.Quote.Content)
	case BlockThematicBreak:
		tw.Node(depth, "thematic-break")
	default:
		tw.Line(depth, "unknown block %q", b.Kind)
	}
}

func spacingAttrs(s Spacing) []string {
	if s == (Spacing{}) {
		return nil
	}
	return []string{"line", formatFloat(s.Line), "after", formatFloat(s.After)}
}

func dumpRuns(tw *debug.TreeWriter, depth int, runs []Run) {
	for i := range runs {
		r := &runs[i]
		switch {
		case r.LineBreak:
			tw.Node(depth, "break")
		case r.IsImage():
			tw.Node(depth, "image", "mime", r.Image.MimeType,
				"frame", strconv.Itoa(r.Image.Width)+"x"+strconv.Itoa(r.Image.Height),
				"bytes", strconv.Itoa(len(r.Image.Data)))
		default:
			tw.TextBlock(depth, "run"+runFlags(r), r.Text)
		}
	}
}

func runFlags(r *Run) string {
	var s string
	if r.Bold {
		s += " bold"
	}
	if r.Italic {
		s += " italic"
	}
	if r.Strike {
		s += " strike"
	}
	if r.Code {
		s += " code"
		if r.FontSize > 0 {
			s += "(" + formatFloat(r.FontSize) + "pt)"
		}
	}
	if r.Hyperlink != "" {
		s += " link=" + r.Hyperlink
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
