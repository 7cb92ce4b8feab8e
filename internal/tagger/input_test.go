// ABOUTME: Tests for tag input variants and normalization.
// ABOUTME: Covers splitting, trimming, dedupe order and validator patterns.

package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Input
		delimiter string
		want      []string
	}{
		{"messy string", StringInput("  a ,, b ,a"), ",", []string{"a", "b"}},
		{"list is not split", ListInput{"a,b", " c ", "c"}, ",", []string{"a,b", "c"}},
		{"case preserved", StringInput("Go,go,GO"), ",", []string{"Go", "go", "GO"}},
		{"custom delimiter", StringInput("x; y;x"), ";", []string{"x", "y"}},
		{"whitespace only", StringInput("  ,\t, "), ",", nil},
		{"empty string", StringInput(""), ",", nil},
		{"nil input", nil, ",", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, tt.delimiter))
		})
	}
}

func TestInputFrom(t *testing.T) {
	in, err := InputFrom("a,b")
	require.NoError(t, err)
	assert.Equal(t, StringInput("a,b"), in)

	in, err = InputFrom([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, ListInput{"a"}, in)

	in, err = InputFrom([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, ListInput{"a", "b"}, in)

	in, err = InputFrom(nil)
	require.NoError(t, err)
	assert.Nil(t, in)

	_, err = InputFrom([]any{"a", 3})
	assert.Error(t, err)

	_, err = InputFrom(42)
	assert.Error(t, err)
}

func TestPatternValidator(t *testing.T) {
	v, err := PatternValidator(StrictNamePattern)
	require.NoError(t, err)

	assert.True(t, v("golang"))
	assert.True(t, v("большие данные"))
	assert.True(t, v("snake_case-tag"))
	assert.False(t, v("c++"))
	assert.False(t, v("v2"))

	_, err = PatternValidator("[")
	assert.Error(t, err)
}
