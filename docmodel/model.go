// Package docmodel defines neutral document content model produced from
// parsed markup. The model is built in a single pass, it is immutable once
// returned and is consumed by document package writers.
package docmodel

import (
	"strings"
)

// Image is binary payload of an embedded picture together with the frame it
// should occupy in the document (logical units).
type Image struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Run is indivisible piece of inline content. Image runs carry no text and
// no character formatting.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Strike    bool
	Code      bool
	FontSize  float64 // points, set only when code font narrows the size
	Hyperlink string
	Image     *Image
	LineBreak bool
}

// IsImage reports whether run embeds a picture.
func (r *Run) IsImage() bool {
	return r.Image != nil
}

// Spacing is paragraph spacing hint: line spacing multiplier and space after
// paragraph in points.
type Spacing struct {
	Line  float64
	After float64
}

// BlockKind distinguishes different block content types.
type BlockKind string

const (
	BlockHeading       BlockKind = "heading"
	BlockParagraph     BlockKind = "paragraph"
	BlockListItem      BlockKind = "list-item"
	BlockTable         BlockKind = "table"
	BlockCode          BlockKind = "code"
	BlockQuote         BlockKind = "blockquote"
	BlockThematicBreak BlockKind = "thematic-break"
)

// Block is top level structural unit of the document. Exactly one payload
// pointer matching Kind is set, thematic break has none.
type Block struct {
	Kind      BlockKind
	Heading   *Heading
	Paragraph *Paragraph
	ListItem  *ListItem
	Table     *Table
	Code      *CodeBlock
	Quote     *BlockQuoteContent
}

type Heading struct {
	Level  int
	Anchor string
	Runs   []Run
}

type Paragraph struct {
	Runs    []Run
	Spacing Spacing
	// Placeholder marks paragraphs substituted for content which could not
	// be translated.
	Placeholder bool
}

type ListItem struct {
	Runs    []Run
	Ordered bool
	Level   int
	// HasContinuation is set when item owns nested list, spacing after such
	// item is suppressed so nested items appear attached.
	HasContinuation bool
	Spacing         Spacing
}

type CodeBlock struct {
	Language string
	Text     string
}

// BlockQuoteContent wraps complete block subtree of a quotation.
type BlockQuoteContent struct {
	Content []Block
}

// HeaderShading is fill hint for header cells.
const HeaderShading = "EEEEEE"

type TableCell struct {
	Content []Block
	Header  bool
	Shading string
}

type TableRow struct {
	Cells []TableCell
}

// Table rows all have the same number of cells.
type Table struct {
	Rows []TableRow
}

// Columns returns number of columns in the table.
func (t *Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// NewHeading, NewParagraph and others build blocks with matching Kind.

func NewHeading(level int, anchor string, runs []Run) Block {
	return Block{Kind: BlockHeading, Heading: &Heading{Level: level, Anchor: anchor, Runs: runs}}
}

func NewParagraph(runs []Run, spacing Spacing) Block {
	return Block{Kind: BlockParagraph, Paragraph: &Paragraph{Runs: runs, Spacing: spacing}}
}

// NewPlaceholder returns paragraph with single italic run visibly marking
// content which could not be translated.
func NewPlaceholder(text string) Block {
	return Block{Kind: BlockParagraph, Paragraph: &Paragraph{
		Runs:        []Run{{Text: text, Italic: true}},
		Placeholder: true,
	}}
}

func NewListItem(item ListItem) Block {
	return Block{Kind: BlockListItem, ListItem: &item}
}

func NewTable(rows []TableRow) Block {
	return Block{Kind: BlockTable, Table: &Table{Rows: rows}}
}

func NewCodeBlock(language, text string) Block {
	return Block{Kind: BlockCode, Code: &CodeBlock{Language: language, Text: text}}
}

func NewBlockQuote(content []Block) Block {
	return Block{Kind: BlockQuote, Quote: &BlockQuoteContent{Content: content}}
}

func NewThematicBreak() Block {
	return Block{Kind: BlockThematicBreak}
}

// Runs returns inline content of the block if it has any.
func (b *Block) Runs() []Run {
	switch b.Kind {
	case BlockHeading:
		return b.Heading.Runs
	case BlockParagraph:
		return b.Paragraph.Runs
	case BlockListItem:
		return b.ListItem.Runs
	}
	return nil
}

// Text returns plain text of the block, images are represented by nothing,
// line breaks by new lines.
func (b *Block) Text() string {
	switch b.Kind {
	case BlockCode:
		return b.Code.Text
	case BlockQuote:
		return blocksText(b.Quote.Content)
	case BlockTable:
		var buf strings.Builder
		for i, row := range b.Table.Rows {
			if i > 0 {
				buf.WriteByte('\n')
			}
			for j, cell := range row.Cells {
				if j > 0 {
					buf.WriteByte('\t')
				}
				buf.WriteString(blocksText(cell.Content))
			}
		}
		return buf.String()
	}
	return RunsText(b.Runs())
}

// RunsText concatenates text of the runs.
func RunsText(runs []Run) string {
	var buf strings.Builder
	for i := range runs {
		if runs[i].LineBreak {
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString(runs[i].Text)
	}
	return buf.String()
}

func blocksText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		parts = append(parts, blocks[i].Text())
	}
	return strings.Join(parts, "\n")
}
