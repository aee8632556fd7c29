package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"md2doc/config"
	"md2doc/docmodel"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	Title      string
	Author     string
	Date       string
	Language   string
	Format     string
	SourceFile string
	DocumentID string
	// Meta is complete front matter of the source.
	Meta map[string]string
}

func expandTemplate(doc *docmodel.Document, src string, name config.TemplateFieldName, field string, format config.OutputFmt) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	meta := doc.Meta
	if meta == nil {
		meta = map[string]string{}
	}
	values := Values{
		Context:    string(name),
		Title:      doc.Title,
		Author:     firstOf(meta, "author", "authors"),
		Date:       firstOf(meta, "date"),
		Language:   firstOf(meta, "lang", "language"),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		DocumentID: doc.ID,
		Meta:       meta,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstOf(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := meta[k]; v != "" {
			return v
		}
	}
	return ""
}
