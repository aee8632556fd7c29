package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// decode returns source converted to UTF-8 and the name of the original
// encoding when conversion was necessary.
func decode(data []byte) ([]byte, string, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), "", nil
	}
	enc, name, _ := charset.DetermineEncoding(data, "text/plain")
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode source from %s: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), name, nil
}

// parseHTML parses hypertext honoring BOM and meta charset declarations.
func parseHTML(data []byte) (*html.Node, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, fmt.Errorf("unable to detect html encoding: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	return root, nil
}

// headTitle returns text of the title element if document has one.
func headTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if c := n.FirstChild; c != nil && c.Type == html.TextNode {
			return strings.TrimSpace(c.Data)
		}
		return ""
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := headTitle(c); t != "" {
			return t
		}
	}
	return ""
}
