package translate

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"md2doc/docmodel"
)

const (
	emptyTableText     = "[empty table]"
	noColumnsTableText = "[table has no columns]"
	tableErrorText     = "[table processing error]"
)

// buildTable takes column count from the first row, shorter rows are padded
// with empty cells and longer ones truncated. Failure is contained to this
// table.
func (t *Translator) buildTable(n *html.Node) (blocks []docmodel.Block) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("Unable to process table", zap.Any("panic", r), zap.Stack("stack"))
			blocks = []docmodel.Block{docmodel.NewPlaceholder(tableErrorText)}
		}
	}()

	rows := tableRows(n)
	if len(rows) == 0 {
		return []docmodel.Block{docmodel.NewPlaceholder(emptyTableText)}
	}
	columns := len(rowCells(rows[0]))
	if columns == 0 {
		return []docmodel.Block{docmodel.NewPlaceholder(noColumnsTableText)}
	}

	out := make([]docmodel.TableRow, 0, len(rows))
	for _, tr := range rows {
		cells := rowCells(tr)
		row := docmodel.TableRow{Cells: make([]docmodel.TableCell, columns)}
		for i := 0; i < columns && i < len(cells); i++ {
			row.Cells[i] = t.tableCell(cells[i])
		}
		out = append(out, row)
	}
	return []docmodel.Block{docmodel.NewTable(out)}
}

func (t *Translator) tableCell(td *html.Node) docmodel.TableCell {
	cell := docmodel.TableCell{Content: t.buildChildren(td)}
	if td.Data == "th" {
		cell.Header = true
		cell.Shading = docmodel.HeaderShading
	}
	return cell
}

// tableRows returns rows of this table in document order, rows of nested
// tables are not included.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch classify(c) {
		case tagRow:
			rows = append(rows, c)
		case tagTableSection:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if classify(r) == tagRow {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if classify(c) == tagCell {
			cells = append(cells, c)
		}
	}
	return cells
}
