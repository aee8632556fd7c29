// Package debug has helpers producing human readable dumps of internal
// structures.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter builds indented text tree, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Node writes node name followed by non-empty attributes given as key, value
// pairs. Trailing key without value is written as a flag.
func (tw TreeWriter) Node(depth int, name string, attrs ...string) {
	tw.indent(depth)
	tw.w.WriteString(name)
	for i := 0; i < len(attrs); i += 2 {
		if i+1 == len(attrs) {
			tw.w.WriteByte(' ')
			tw.w.WriteString(attrs[i])
			break
		}
		if attrs[i+1] == "" {
			continue
		}
		tw.w.WriteByte(' ')
		tw.w.WriteString(attrs[i])
		tw.w.WriteByte('=')
		tw.w.WriteString(attrs[i+1])
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
