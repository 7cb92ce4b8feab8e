// ABOUTME: YAML front matter parsing and rendering for markdown notes.
// ABOUTME: The tag attribute is read by name and may be a string or a list.

package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/harper/memotag/internal/tagger"
	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Document is a markdown file split into its metadata and body.
type Document struct {
	Title string
	// Tags is nil when the front matter has no tag attribute.
	Tags tagger.Input
	Body string
	// Meta holds every front matter field as decoded.
	Meta map[string]any
}

// Parse splits data into front matter and body. tagAttribute names the field
// holding the tags. Files without front matter are all body.
func Parse(data []byte, tagAttribute string) (*Document, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	doc := &Document{Body: content}

	if !strings.HasPrefix(content, fence) {
		return doc, nil
	}
	parts := strings.SplitN(content, fence, 3)
	if len(parts) < 3 {
		return doc, nil
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	doc.Meta = meta
	doc.Body = parts[2]

	if title, ok := meta["title"].(string); ok {
		doc.Title = title
	}
	in, err := tagger.InputFrom(meta[tagAttribute])
	if err != nil {
		return nil, fmt.Errorf("front matter %q: %w", tagAttribute, err)
	}
	doc.Tags = in
	return doc, nil
}

// Render writes meta as YAML front matter followed by body.
func Render(meta any, body string) ([]byte, error) {
	front, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("render front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.Write(front)
	buf.WriteString(fence)
	buf.WriteString("\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
