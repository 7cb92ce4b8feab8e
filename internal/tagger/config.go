// ABOUTME: Per record-type tagging configuration with defaults and validation.
// ABOUTME: Table and column names are checked here since SQL cannot bind identifiers.

package tagger

import (
	"fmt"
	"regexp"
)

// Config describes how a record type is tagged and where tags live.
type Config struct {
	// Delimiter separates names in a StringInput.
	Delimiter string
	// InputAttribute names the record attribute carrying the raw tag input.
	InputAttribute string

	TagTable      string
	TagIDColumn   string
	TagNameColumn string

	LinkTable      string
	TagFKColumn    string
	RecordFKColumn string

	// AllowTagCreation lets unseen names create new tags. When false they
	// are skipped.
	AllowTagCreation bool
}

// DefaultConfig returns the defaults. LinkTable and RecordFKColumn have no
// default and must be set before Validate passes.
func DefaultConfig() Config {
	return Config{
		Delimiter:        ",",
		InputAttribute:   "tags",
		TagTable:         "tag",
		TagIDColumn:      "id",
		TagNameColumn:    "name",
		TagFKColumn:      "tag_id",
		AllowTagCreation: true,
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate reports the first problem with c, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("%w: tag delimiter is empty", ErrInvalidConfig)
	}
	if c.InputAttribute == "" {
		return fmt.Errorf("%w: tag input attribute is empty", ErrInvalidConfig)
	}
	idents := []struct{ key, value string }{
		{"tag table", c.TagTable},
		{"tag id column", c.TagIDColumn},
		{"tag name column", c.TagNameColumn},
		{"link table", c.LinkTable},
		{"tag foreign key column", c.TagFKColumn},
		{"record foreign key column", c.RecordFKColumn},
	}
	for _, id := range idents {
		if id.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, id.key)
		}
		if !identPattern.MatchString(id.value) {
			return fmt.Errorf("%w: %s %q is not a plain identifier", ErrInvalidConfig, id.key, id.value)
		}
	}
	return nil
}
