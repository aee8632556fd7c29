package docmodel

import (
	"fmt"
	"io"

	"md2doc/config"
)

// Writer serializes document content model.
type Writer interface {
	Write(w io.Writer, doc *Document) error
}

// NewWriter returns writer for requested output format.
func NewWriter(format config.OutputFmt) (Writer, error) {
	switch format {
	case config.OutputFmtXml:
		return &XMLWriter{Indent: 2}, nil
	case config.OutputFmtTree:
		return TreeWriter{}, nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", format)
}

// TreeWriter writes indented text dump of the document.
type TreeWriter struct{}

func (TreeWriter) Write(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, doc.String())
	return err
}
