// ABOUTME: Tests for front matter parsing and rendering.
// ABOUTME: Covers string and list tag attributes and files without metadata.

package frontmatter

import (
	"testing"

	"github.com/harper/memotag/internal/tagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListTags(t *testing.T) {
	data := []byte("---\ntitle: Hello\ntags:\n  - go\n  - yaml\n---\nBody text\n")

	doc, err := Parse(data, "tags")
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, tagger.ListInput{"go", "yaml"}, doc.Tags)
	assert.Equal(t, "Body text\n", doc.Body)
}

func TestParseStringTagsUnderCustomAttribute(t *testing.T) {
	data := []byte("---\ntitle: Hello\nlabels: \"a, b\"\n---\nBody\n")

	doc, err := Parse(data, "labels")
	require.NoError(t, err)
	assert.Equal(t, tagger.StringInput("a, b"), doc.Tags)
	assert.Equal(t, []string{"a", "b"}, tagger.Normalize(doc.Tags, ","))
}

func TestParseMissingAttributeIsNil(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Hello\n---\nBody\n"), "tags")
	require.NoError(t, err)
	assert.Nil(t, doc.Tags)
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := Parse([]byte("# Just markdown\n"), "tags")
	require.NoError(t, err)
	assert.Empty(t, doc.Title)
	assert.Nil(t, doc.Tags)
	assert.Equal(t, "# Just markdown\n", doc.Body)
}

func TestParseRejectsBadTagValue(t *testing.T) {
	_, err := Parse([]byte("---\ntags: 42\n---\nBody\n"), "tags")
	assert.Error(t, err)

	_, err = Parse([]byte("---\ntags: [a, [b]]\n---\nBody\n"), "tags")
	assert.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	meta := map[string]any{"title": "Note", "tags": []string{"x", "y"}}
	data, err := Render(meta, "Body\n")
	require.NoError(t, err)

	doc, err := Parse(data, "tags")
	require.NoError(t, err)
	assert.Equal(t, "Note", doc.Title)
	assert.Equal(t, tagger.ListInput{"x", "y"}, doc.Tags)
	assert.Equal(t, "\nBody\n", doc.Body)
}
