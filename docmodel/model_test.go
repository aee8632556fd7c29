package docmodel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"md2doc/config"
)

func sampleDocument() *Document {
	return &Document{
		ID:    "0190f7a4-1111-7000-8000-000000000000",
		Title: "Sample",
		Meta:  map[string]string{"author": "Jane", "lang": "en"},
		Blocks: []Block{
			NewHeading(1, "sample", []Run{{Text: "Sample"}}),
			NewParagraph([]Run{
				{Text: "plain "},
				{Text: "bold", Bold: true},
				{Text: " "},
				{Text: "link", Hyperlink: "https://example.com"},
				{LineBreak: true},
				{Image: &Image{Data: []byte{1, 2, 3}, MimeType: "image/png", Width: 400, Height: 300}},
			}, Spacing{Line: 1.15, After: 8}),
			NewListItem(ListItem{Runs: []Run{{Text: "one"}}, Level: 0, HasContinuation: true}),
			NewListItem(ListItem{Runs: []Run{{Text: "nested"}}, Level: 1, Ordered: true, Spacing: Spacing{Line: 1.15, After: 8}}),
			NewTable([]TableRow{
				{Cells: []TableCell{
					{Header: true, Shading: HeaderShading, Content: []Block{NewParagraph([]Run{{Text: "A", Bold: true}}, Spacing{})}},
					{Header: true, Shading: HeaderShading, Content: []Block{NewParagraph([]Run{{Text: "B", Bold: true}}, Spacing{})}},
				}},
				{Cells: []TableCell{
					{Content: []Block{NewParagraph([]Run{{Text: "1"}}, Spacing{})}},
					{Content: []Block{NewParagraph(nil, Spacing{})}},
				}},
			}),
			NewCodeBlock("go", "fmt.Println(1)\n"),
			NewBlockQuote([]Block{
				NewHeading(2, "", []Run{{Text: "Quoted"}}),
				NewParagraph([]Run{{Text: "text", Italic: true}}, Spacing{}),
			}),
			NewThematicBreak(),
			NewPlaceholder("[no content]"),
			NewHeading(2, "second", []Run{{Text: "Second "}, {Text: "part", Code: true, FontSize: 10}}),
		},
	}
}

func TestBlock_Text(t *testing.T) {
	doc := sampleDocument()
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"heading", 0, "Sample"},
		{"paragraph", 1, "plain bold link\n"},
		{"table", 4, "A\tB\n1\t"},
		{"code", 5, "fmt.Println(1)\n"},
		{"blockquote", 6, "Quoted\ntext"},
		{"thematic break", 7, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Blocks[tt.index].Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_Columns(t *testing.T) {
	doc := sampleDocument()
	if got := doc.Blocks[4].Table.Columns(); got != 2 {
		t.Errorf("Columns() = %d, want 2", got)
	}
	if got := (&Table{}).Columns(); got != 0 {
		t.Errorf("empty table Columns() = %d, want 0", got)
	}
}

func TestDocument_Outline(t *testing.T) {
	outline := sampleDocument().Outline()
	if len(outline) != 2 {
		t.Fatalf("expected 2 outline entries (quoted heading excluded), got %d", len(outline))
	}
	if outline[0] != (OutlineEntry{Level: 1, Title: "Sample", Anchor: "sample"}) {
		t.Errorf("unexpected first entry: %+v", outline[0])
	}
	if outline[1].Title != "Second part" || outline[1].Level != 2 {
		t.Errorf("unexpected second entry: %+v", outline[1])
	}
}

func TestNewPlaceholder(t *testing.T) {
	b := NewPlaceholder("[empty table]")
	if b.Kind != BlockParagraph || !b.Paragraph.Placeholder {
		t.Fatalf("unexpected block: %+v", b)
	}
	runs := b.Runs()
	if len(runs) != 1 || !runs[0].Italic || runs[0].Text != "[empty table]" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestDocument_String(t *testing.T) {
	out := sampleDocument().String()

	for _, want := range []string{
		"document id=0190f7a4-1111-7000-8000-000000000000 blocks=10\n",
		"  title: \"Sample\"\n",
		"  meta author: \"Jane\"\n",
		"  heading level=1 anchor=sample\n",
		"  paragraph line=1.15 after=8\n",
		"    run bold: \"bold\"\n",
		"    run link=https://example.com: \"link\"\n",
		"    break\n",
		"    image mime=image/png frame=400x300 bytes=3\n",
		"  list-item level=0 ordered=false continued\n",
		"  list-item level=1 ordered=true line=1.15 after=8\n",
		"  table rows=2 columns=2\n",
		"      cell shading=EEEEEE header\n",
		"  code language=go\n",
		"  blockquote\n",
		"    heading level=2\n",
		"  thematic-break\n",
		"  paragraph placeholder\n",
		"    run code(10pt): \"part\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump does not contain %q:\n%s", want, out)
		}
	}
}

func TestNewWriter(t *testing.T) {
	if _, err := NewWriter(config.OutputFmtXml); err != nil {
		t.Errorf("xml writer: %v", err)
	}
	if _, err := NewWriter(config.OutputFmtTree); err != nil {
		t.Errorf("tree writer: %v", err)
	}
	if _, err := NewWriter(config.OutputFmt(42)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTreeWriter_Write(t *testing.T) {
	doc := sampleDocument()
	buf := new(bytes.Buffer)
	if err := (TreeWriter{}).Write(buf, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != doc.String() {
		t.Error("tree writer output differs from document dump")
	}
}

func TestXMLWriter_Write(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := (&XMLWriter{Indent: 2}).Write(buf, sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("produced xml is not well formed: %v", err)
	}
	root := doc.Root()
	if root.Tag != "document" || root.SelectAttrValue("title", "") != "Sample" {
		t.Fatalf("unexpected root: %s", root.Tag)
	}

	items := root.FindElements("./meta/item")
	if len(items) != 2 || items[0].SelectAttrValue("name", "") != "author" {
		t.Errorf("unexpected meta items: %d", len(items))
	}

	body := root.SelectElement("body")
	if body == nil {
		t.Fatal("body element missing")
	}
	if n := len(body.ChildElements()); n != 10 {
		t.Errorf("expected 10 blocks, got %d", n)
	}

	runs := body.FindElements("./paragraph[1]/run")
	if len(runs) != 4 {
		t.Fatalf("expected 4 text runs in first paragraph, got %d", len(runs))
	}
	if runs[2].Text() != " " {
		t.Errorf("whitespace run was not preserved: %q", runs[2].Text())
	}
	if runs[1].SelectAttrValue("bold", "") != "true" {
		t.Error("bold attribute missing")
	}
	if runs[3].SelectAttrValue("href", "") != "https://example.com" {
		t.Error("href attribute missing")
	}

	img := body.FindElement("./paragraph[1]/image")
	if img == nil || img.Text() != "AQID" || img.SelectAttrValue("width", "") != "400" {
		t.Errorf("unexpected image element: %v", img)
	}

	cells := body.FindElements("./table/row/cell")
	if len(cells) != 4 || cells[0].SelectAttrValue("shading", "") != HeaderShading {
		t.Errorf("unexpected table cells: %d", len(cells))
	}

	if code := body.FindElement("./code"); code == nil || code.Text() != "fmt.Println(1)\n" || code.SelectAttrValue("language", "") != "go" {
		t.Error("unexpected code element")
	}
	if q := body.FindElements("./blockquote/*"); len(q) != 2 {
		t.Errorf("expected 2 quoted blocks, got %d", len(q))
	}
	if li := body.FindElement("./list-item[@continued='true']"); li == nil || li.SelectAttrValue("level", "") != "0" {
		t.Error("continued list item missing")
	}
}
