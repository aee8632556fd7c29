package translate

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"md2doc/docmodel"
	"md2doc/resolver"
)

const (
	checkedBox   = "☑"
	uncheckedBox = "☐"
)

var newlineRe = regexp.MustCompile(`[ \t]*\r?\n[ \t]*`)

// collapseNewlines turns soft line breaks of the source into spaces.
func collapseNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return newlineRe.ReplaceAllString(s, " ")
}

// elementStyle merges formatting of element tag and its style attribute.
func (t *Translator) elementStyle(n *html.Node, kind tagKind, style Style) Style {
	style = style.With(kind)
	if v, ok := attr(n, "style"); ok {
		style = style.WithCSS(t.css.ParseInline(v).Formatting())
	}
	return style
}

// inlineRuns builds runs for sequence of sibling nodes. When sole is set and
// the only node is whitespace text it is kept as a single space, so empty
// inline elements separating words do not lose it.
func (t *Translator) inlineRuns(nodes []*html.Node, style Style, sole bool) []docmodel.Run {
	var runs []docmodel.Run
	for i, n := range nodes {
		if n.Type == html.TextNode {
			text := n.Data
			if strings.TrimSpace(text) == "" {
				keep := (sole && len(nodes) == 1) ||
					(i > 0 && i < len(nodes)-1 && isInlineContent(nodes[i-1]) && isInlineContent(nodes[i+1]))
				if !keep {
					continue
				}
				text = " "
			}
			runs = append(runs, style.run(collapseNewlines(text), &t.opts))
			continue
		}
		runs = append(runs, t.inlineElement(n, style)...)
	}
	return runs
}

// isInlineContent reports whether node produces inline content, whitespace
// only text does not count.
func isInlineContent(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	return n.Type == html.ElementNode && isInline(n)
}

func (t *Translator) inlineElement(n *html.Node, style Style) []docmodel.Run {
	if n.Type != html.ElementNode {
		return nil
	}
	kind := classify(n)
	switch kind {
	case tagIgnored:
		return nil
	case tagBreak:
		return []docmodel.Run{{LineBreak: true}}
	case tagImage:
		return []docmodel.Run{t.image(n)}
	case tagLink:
		return t.link(n, t.elementStyle(n, kind, style))
	case tagInput:
		if strings.EqualFold(attrValue(n, "type"), "checkbox") {
			box := uncheckedBox
			if _, checked := attr(n, "checked"); checked {
				box = checkedBox
			}
			return []docmodel.Run{style.run(box, &t.opts)}
		}
		return nil
	}
	// formatting tags and transparent passthrough, content is never dropped
	return t.inlineRuns(children(n), t.elementStyle(n, kind, style), true)
}

func (t *Translator) image(n *html.Node) docmodel.Run {
	src, alt := attrValue(n, "src"), attrValue(n, "alt")
	if t.images == nil {
		return resolver.Placeholder(alt)
	}
	return t.images.Resolve(src, alt)
}

// link produces single hyperlink run. Link without target is transparent,
// link wrapping only pictures yields the pictures.
func (t *Translator) link(n *html.Node, style Style) []docmodel.Run {
	href, ok := attr(n, "href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return t.inlineRuns(children(n), style, true)
	}

	text := strings.TrimSpace(collapseNewlines(textContent(n)))
	if text == "" {
		if imgs := t.linkedImages(n); len(imgs) > 0 {
			return imgs
		}
		text = href
	}
	r := style.run(text, &t.opts)
	r.Hyperlink = t.resolveLink(href)
	return []docmodel.Run{r}
}

func (t *Translator) linkedImages(n *html.Node) []docmodel.Run {
	var runs []docmodel.Run
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if classify(c) == tagImage {
			runs = append(runs, t.image(c))
			continue
		}
		runs = append(runs, t.linkedImages(c)...)
	}
	return runs
}

func (t *Translator) resolveLink(href string) string {
	if t.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		t.log.Debug("Unable to parse link", zap.String("href", href), zap.Error(err))
		return href
	}
	return t.base.ResolveReference(ref).String()
}

// textContent concatenates all descendant text nodes.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				if classify(c) != tagIgnored {
					walk(c)
				}
			}
		}
	}
	walk(n)
	return sb.String()
}

// trimEdges strips leading whitespace of the first and trailing whitespace of
// the last plain text run, runs left empty are removed. Code, links and
// images stop trimming.
func trimEdges(runs []docmodel.Run) []docmodel.Run {
	for len(runs) > 0 && isText(&runs[0]) {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " \t")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 && isText(&runs[len(runs)-1]) {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " \t")
		if last.Text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	return runs
}

func isText(r *docmodel.Run) bool {
	return !r.IsImage() && !r.LineBreak && !r.Code && r.Hyperlink == ""
}

// hasContent reports whether runs would render anything visible.
func hasContent(runs []docmodel.Run) bool {
	for i := range runs {
		if runs[i].IsImage() || strings.TrimSpace(runs[i].Text) != "" {
			return true
		}
	}
	return false
}
