// ABOUTME: Tests for tagger configuration defaults and validation.

package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.TagTable = "tags"
	cfg.LinkTable = "note_tags"
	cfg.RecordFKColumn = "note_id"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ",", cfg.Delimiter)
	assert.Equal(t, "tags", cfg.InputAttribute)
	assert.Equal(t, "id", cfg.TagIDColumn)
	assert.Equal(t, "name", cfg.TagNameColumn)
	assert.Equal(t, "tag_id", cfg.TagFKColumn)
	assert.True(t, cfg.AllowTagCreation)

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"complete", func(*Config) {}, true},
		{"missing record fk", func(c *Config) { c.RecordFKColumn = "" }, false},
		{"missing link table", func(c *Config) { c.LinkTable = "" }, false},
		{"empty delimiter", func(c *Config) { c.Delimiter = "" }, false},
		{"quoted identifier", func(c *Config) { c.TagTable = `tags"; DROP TABLE notes; --` }, false},
		{"identifier with space", func(c *Config) { c.TagNameColumn = "tag name" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestNewReconcilerRejectsBadConfig(t *testing.T) {
	_, err := NewReconciler(NewMemoryStore(), DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewReconciler(nil, validConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
