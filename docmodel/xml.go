package docmodel

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// XMLWriter serializes document as XML. Images are embedded as base64.
type XMLWriter struct {
	// Indent is number of spaces per level, 0 produces compact output.
	Indent int
}

func (x *XMLWriter) Write(w io.Writer, doc *Document) error {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := out.CreateElement("document")
	if doc.ID != "" {
		root.CreateAttr("id", doc.ID)
	}
	if doc.Title != "" {
		root.CreateAttr("title", doc.Title)
	}
	if len(doc.Meta) > 0 {
		info := root.CreateElement("meta")
		for _, k := range doc.MetaKeys() {
			item := info.CreateElement("item")
			item.CreateAttr("name", k)
			item.SetText(doc.Meta[k])
		}
	}
	body := root.CreateElement("body")
	for i := range doc.Blocks {
		if err := appendBlock(body, &doc.Blocks[i]); err != nil {
			return err
		}
	}

	if x.Indent > 0 {
		// runs holding single space between inline elements must survive
		settings := etree.NewIndentSettings()
		settings.Spaces = x.Indent
		settings.PreserveLeafWhitespace = true
		out.IndentWithSettings(settings)
	}
	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write xml: %w", err)
	}
	return nil
}

func appendBlock(parent *etree.Element, b *Block) error {
	switch b.Kind {
	case BlockHeading:
		el := parent.CreateElement("heading")
		el.CreateAttr("level", strconv.Itoa(b.Heading.Level))
		if b.Heading.Anchor != "" {
			el.CreateAttr("anchor", b.Heading.Anchor)
		}
		appendRuns(el, b.Heading.Runs)
	case BlockParagraph:
		el := parent.CreateElement("paragraph")
		setSpacing(el, b.Paragraph.Spacing)
		if b.Paragraph.Placeholder {
			el.CreateAttr("placeholder", "true")
		}
		appendRuns(el, b.Paragraph.Runs)
	case BlockListItem:
		li := b.ListItem
		el := parent.CreateElement("list-item")
		el.CreateAttr("level", strconv.Itoa(li.Level))
		el.CreateAttr("ordered", strconv.FormatBool(li.Ordered))
		if li.HasContinuation {
			el.CreateAttr("continued", "true")
		}
		setSpacing(el, li.Spacing)
		appendRuns(el, li.Runs)
	case BlockTable:
		el := parent.CreateElement("table")
		el.CreateAttr("columns", strconv.Itoa(b.Table.Columns()))
		for _, row := range b.Table.Rows {
			tr := el.CreateElement("row")
			for _, cell := range row.Cells {
				td := tr.CreateElement("cell")
				if cell.Header {
					td.CreateAttr("header", "true")
				}
				if cell.Shading != "" {
					td.CreateAttr("shading", cell.Shading)
				}
				for i := range cell.Content {
					if err := appendBlock(td, &cell.Content[i]); err != nil {
						return err
					}
				}
			}
		}
	case BlockCode:
		el := parent.CreateElement("code")
		if b.Code.Language != "" {
			el.CreateAttr("language", b.Code.Language)
		}
		el.CreateCharData(b.Code.Text)
	case BlockQuote:
		el := parent.CreateElement("blockquote")
		for i := range b.Quote.Content {
			if err := appendBlock(el, &b.Quote.Content[i]); err != nil {
				return err
			}
		}
	case BlockThematicBreak:
		parent.CreateElement("thematic-break")
	default:
		return fmt.Errorf("unknown block kind %q", b.Kind)
	}
	return nil
}

func setSpacing(el *etree.Element, s Spacing) {
	if s == (Spacing{}) {
		return
	}
	el.CreateAttr("line-spacing", formatFloat(s.Line))
	el.CreateAttr("space-after", formatFloat(s.After))
}

func appendRuns(parent *etree.Element, runs []Run) {
	for i := range runs {
		r := &runs[i]
		switch {
		case r.LineBreak:
			parent.CreateElement("break")
		case r.IsImage():
			el := parent.CreateElement("image")
			el.CreateAttr("mime", r.Image.MimeType)
			el.CreateAttr("width", strconv.Itoa(r.Image.Width))
			el.CreateAttr("height", strconv.Itoa(r.Image.Height))
			el.SetText(base64.StdEncoding.EncodeToString(r.Image.Data))
		default:
			el := parent.CreateElement("run")
			for _, flag := range []struct {
				name string
				set  bool
			}{{"bold", r.Bold}, {"italic", r.Italic}, {"strike", r.Strike}, {"code", r.Code}} {
				if flag.set {
					el.CreateAttr(flag.name, "true")
				}
			}
			if r.FontSize > 0 {
				el.CreateAttr("size", formatFloat(r.FontSize))
			}
			if r.Hyperlink != "" {
				el.CreateAttr("href", r.Hyperlink)
			}
			el.SetText(r.Text)
		}
	}
}
