// ABOUTME: Raw tag input variants and the normalizer that turns them into names.
// ABOUTME: Splits, trims, drops empties and dedupes while keeping first-seen order.

package tagger

import (
	"fmt"
	"regexp"
	"strings"
)

// Input is the raw tag value a record carries at save time. It is either a
// StringInput or a ListInput. A nil Input means the record has no tag
// attribute at all, which is different from an empty one.
type Input interface {
	candidates(delimiter string) []string
}

// StringInput is a delimiter-separated string as typed by a user.
type StringInput string

func (s StringInput) candidates(delimiter string) []string {
	return strings.Split(string(s), delimiter)
}

// ListInput is an explicit list of names. It is never split.
type ListInput []string

func (l ListInput) candidates(string) []string {
	return l
}

// InputFrom converts a loosely typed attribute value, as decoded from YAML or
// JSON, into an Input. A nil value yields a nil Input.
func InputFrom(value any) (Input, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return StringInput(v), nil
	case []string:
		return ListInput(v), nil
	case []any:
		names := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tag list item %d: expected string, got %T", i, item)
			}
			names = append(names, s)
		}
		return ListInput(names), nil
	default:
		return nil, fmt.Errorf("unsupported tag value type %T", value)
	}
}

// Normalize returns the trimmed, non-empty, de-duplicated names of in,
// in order of first occurrence. Comparison is exact; case is preserved.
func Normalize(in Input, delimiter string) []string {
	if in == nil {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, c := range in.candidates(delimiter) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		names = append(names, c)
	}
	return names
}

// NameValidator decides whether a normalized name is acceptable as a tag.
type NameValidator func(name string) bool

// StrictNamePattern accepts words made of letters, '_' and '-', separated by
// whitespace.
const StrictNamePattern = `^[\pL_-]+(\s+[\pL_-]+)*$`

// PatternValidator builds a NameValidator from a regular expression.
func PatternValidator(pattern string) (NameValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile name pattern: %w", err)
	}
	return re.MatchString, nil
}
