package translate

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tagKind is closed classification of elements we know how to translate.
// Everything else is tagUnknown and treated as transparent container.
type tagKind int

const (
	tagUnknown tagKind = iota
	tagIgnored
	tagHeading
	tagParagraph
	tagList
	tagListItem
	tagDefTerm
	tagTable
	tagTableSection
	tagRow
	tagCell
	tagPre
	tagBlockquote
	tagRule
	tagBold
	tagItalic
	tagStrike
	tagCode
	tagLink
	tagImage
	tagBreak
	tagInput
)

var tagKindNames = map[tagKind]string{
	tagUnknown:      "unknown",
	tagIgnored:      "ignored",
	tagHeading:      "heading",
	tagParagraph:    "paragraph",
	tagList:         "list",
	tagListItem:     "list-item",
	tagDefTerm:      "definition-term",
	tagTable:        "table",
	tagTableSection: "table-section",
	tagRow:          "row",
	tagCell:         "cell",
	tagPre:          "pre",
	tagBlockquote:   "blockquote",
	tagRule:         "rule",
	tagBold:         "bold",
	tagItalic:       "italic",
	tagStrike:       "strike",
	tagCode:         "code",
	tagLink:         "link",
	tagImage:        "image",
	tagBreak:        "break",
	tagInput:        "input",
}

func (k tagKind) String() string {
	if s, ok := tagKindNames[k]; ok {
		return s
	}
	return "tagKind(?)"
}

var tagKinds = map[atom.Atom]tagKind{
	atom.Script:     tagIgnored,
	atom.Style:      tagIgnored,
	atom.Template:   tagIgnored,
	atom.Head:       tagIgnored,
	atom.H1:         tagHeading,
	atom.H2:         tagHeading,
	atom.H3:         tagHeading,
	atom.H4:         tagHeading,
	atom.H5:         tagHeading,
	atom.H6:         tagHeading,
	atom.P:          tagParagraph,
	atom.Ul:         tagList,
	atom.Ol:         tagList,
	atom.Li:         tagListItem,
	atom.Dt:         tagDefTerm,
	atom.Table:      tagTable,
	atom.Thead:      tagTableSection,
	atom.Tbody:      tagTableSection,
	atom.Tfoot:      tagTableSection,
	atom.Tr:         tagRow,
	atom.Td:         tagCell,
	atom.Th:         tagCell,
	atom.Pre:        tagPre,
	atom.Blockquote: tagBlockquote,
	atom.Hr:         tagRule,
	atom.Strong:     tagBold,
	atom.B:          tagBold,
	atom.Em:         tagItalic,
	atom.I:          tagItalic,
	atom.Del:        tagStrike,
	atom.S:          tagStrike,
	atom.Strike:     tagStrike,
	atom.Code:       tagCode,
	atom.Kbd:        tagCode,
	atom.Samp:       tagCode,
	atom.Tt:         tagCode,
	atom.A:          tagLink,
	atom.Img:        tagImage,
	atom.Br:         tagBreak,
	atom.Input:      tagInput,
}

// blockContainers are unknown elements which still break inline flow.
var blockContainers = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Div: true, atom.Section: true,
	atom.Article: true, atom.Header: true, atom.Footer: true, atom.Nav: true,
	atom.Aside: true, atom.Main: true, atom.Dl: true, atom.Dd: true,
	atom.Figure: true, atom.Figcaption: true, atom.Details: true, atom.Summary: true,
	atom.Form: true, atom.Fieldset: true, atom.Address: true, atom.Caption: true,
	atom.Center: true,
}

func classify(n *html.Node) tagKind {
	if n.Type != html.ElementNode {
		return tagUnknown
	}
	return tagKinds[n.DataAtom]
}

// isBlock reports whether element starts new block in the document flow.
func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch classify(n) {
	case tagIgnored, tagHeading, tagParagraph, tagList, tagListItem, tagDefTerm,
		tagTable, tagTableSection, tagRow, tagCell, tagPre, tagBlockquote, tagRule:
		return true
	case tagUnknown:
		return blockContainers[n.DataAtom]
	}
	return false
}

// isInline reports whether node belongs to inline flow: text or inline
// element.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return !isBlock(n)
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
