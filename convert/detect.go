package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

type sourceType int

const (
	sourceNone sourceType = iota
	sourceMarkdown
	sourceHTML
)

func (s sourceType) String() string {
	switch s {
	case sourceMarkdown:
		return "markdown"
	case sourceHTML:
		return "html"
	}
	return "none"
}

var sourceExtensions = map[string]sourceType{
	".md":       sourceMarkdown,
	".markdown": sourceMarkdown,
	".mdown":    sourceMarkdown,
	".mkd":      sourceMarkdown,
	".mkdn":     sourceMarkdown,
	".html":     sourceHTML,
	".htm":      sourceHTML,
	".xhtml":    sourceHTML,
}

// detectSource classifies file by its name.
func detectSource(name string) sourceType {
	return sourceExtensions[strings.ToLower(filepath.Ext(name))]
}

func isSourceName(name string) bool {
	return detectSource(name) != sourceNone
}

// isArchiveFile sniffs file header, extension is not trusted.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// 262 bytes is enough for any matcher filetype has
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("unable to read file header: %w", err)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false, nil
	}
	return kind == matchers.TypeZip, nil
}
