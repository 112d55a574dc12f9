package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

var frontMatterDelim = []byte("---")

// splitFrontMatter separates an optional leading YAML front matter block
// from the Markdown body. Files without front matter yield an empty meta map.
func splitFrontMatter(raw []byte) (map[string]any, []byte, error) {
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(normalized, frontMatterDelim) {
		return map[string]any{}, normalized, nil
	}

	rest := normalized[len(frontMatterDelim):]
	if len(rest) > 0 && rest[0] != '\n' {
		// Not a delimiter line, e.g. a post starting with "---text".
		return map[string]any{}, normalized, nil
	}
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	end := bytes.Index(rest, []byte("\n---"))
	if end == -1 {
		return nil, nil, fmt.Errorf("unterminated front matter")
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))

	meta := map[string]any{}
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseDate accepts the date shapes YAML can hand us: native timestamps,
// unix seconds, or one of the supported string formats.
func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case int:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case float64:
		return time.Unix(int64(v), 0), true
	case string:
		text := strings.TrimSpace(v)
		for _, format := range dateFormats {
			if t, err := time.Parse(format, text); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = slugPattern.ReplaceAllString(normalized, "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return "post"
	}
	return normalized
}

func titleFromStem(stem string) string {
	words := strings.Fields(strings.ReplaceAll(stem, "-", " "))
	for i, word := range words {
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func normalizeTags(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if t := strings.TrimSpace(v); t != "" {
			return []string{t}
		}
		return nil
	case []any:
		var tags []string
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if t := strings.TrimSpace(s); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	default:
		return nil
	}
}

const maxSummaryLength = 160

// extractSummary prefers an explicit summary/description from the front
// matter and otherwise truncates the whitespace-collapsed raw content.
func extractSummary(meta map[string]any, content string) string {
	for _, key := range []string{"summary", "description"} {
		if s, ok := meta[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	plain := strings.Join(strings.Fields(content), " ")
	if len(plain) <= maxSummaryLength {
		return plain
	}
	return strings.TrimRight(plain[:maxSummaryLength], " ") + "..."
}

const maxExcerptLength = 280

// extractExcerpt takes the rendered HTML up to the first closing paragraph.
func extractExcerpt(html string) string {
	if i := strings.Index(html, "</p>"); i != -1 {
		return html[:i+len("</p>")]
	}
	if len(html) > maxExcerptLength {
		return html[:maxExcerptLength] + "..."
	}
	return html
}

// groupMeta is the "group" front matter key, either a bare label string or a
// mapping with name/label, slug and description.
func groupMeta(value any) (slug, label, description string) {
	switch v := value.(type) {
	case string:
		label = strings.TrimSpace(v)
		if label != "" {
			slug = slugify(label)
		}
	case map[string]any:
		if s, ok := v["name"].(string); ok && s != "" {
			label = strings.TrimSpace(s)
		} else if s, ok := v["label"].(string); ok {
			label = strings.TrimSpace(s)
		}
		if s, ok := v["slug"].(string); ok && strings.TrimSpace(s) != "" {
			slug = strings.TrimSpace(s)
		} else if label != "" {
			slug = slugify(label)
		}
		if s, ok := v["description"].(string); ok {
			description = strings.TrimSpace(s)
		}
	}
	return slug, label, description
}

func metaString(meta map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := meta[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func metaBool(meta map[string]any, key string) bool {
	b, ok := meta[key].(bool)
	return ok && b
}
