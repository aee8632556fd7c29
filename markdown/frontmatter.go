package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// parseFrontMatter extracts metadata and markdown body. Source without front
// matter is returned unchanged with empty metadata.
func parseFrontMatter(source []byte) (map[string]string, []byte, error) {
	var raw map[string]any

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := stringify(v); s != "" {
			meta[strings.ToLower(k)] = s
		}
	}
	return meta, body, nil
}

// stringify renders scalar and list values, nested maps are flattened to
// sorted key=value pairs.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return stringifyPairs(len(val), func(yield func(string, any)) {
			for k, v := range val {
				yield(k, v)
			}
		})
	case map[any]any:
		return stringifyPairs(len(val), func(yield func(string, any)) {
			for k, v := range val {
				yield(fmt.Sprint(k), v)
			}
		})
	}
	return fmt.Sprint(v)
}

func stringifyPairs(n int, each func(func(string, any))) string {
	parts := make([]string, 0, n)
	each(func(k string, v any) {
		parts = append(parts, k+"="+stringify(v))
	})
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
