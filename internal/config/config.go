// ABOUTME: Configuration loading for memotag using viper and config.yaml.
// ABOUTME: Maps file keys and MEMOTAG_* env vars onto the tagger settings.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/memotag/internal/db"
	"github.com/harper/memotag/internal/tagger"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "MEMOTAG"

	KeyBackend          = "backend"
	KeyDataDir          = "data_dir"
	KeyDelimiter        = "tag_delimiter"
	KeyInputAttribute   = "tag_input_attribute"
	KeyTagTable         = "tag_table"
	KeyTagIDColumn      = "tag_id_column"
	KeyTagNameColumn    = "tag_name_column"
	KeyLinkTable        = "link_table"
	KeyTagFKColumn      = "tag_fk_column"
	KeyRecordFKColumn   = "record_fk_column"
	KeyAllowTagCreation = "allow_tag_creation"
	KeyNamePattern      = "name_pattern"
)

// Storage backends for tags and links.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

const defaultConfigYAML = `# memotag configuration

# Where tags and links are stored: sqlite or badger
backend: sqlite

# Separator for tag strings typed on the command line
tag_delimiter: ","

# Create tags that do not exist yet
allow_tag_creation: true

# Optional regular expression tag names must match, e.g.
# name_pattern: '^[\pL_-]+(\s+[\pL_-]+)*$'

# Data directory (optional)
# data_dir:
`

// Config is the resolved memotag configuration.
type Config struct {
	Backend     string
	DataDir     string
	NamePattern string
	Tagger      tagger.Config
}

// Dir returns $XDG_CONFIG_HOME/memotag, falling back to ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "memotag")
}

// Load reads config.yaml from dir, writing a default one on first run.
// A missing file is not an error.
func Load(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	notes := db.NoteTagConfig()
	v.SetDefault(KeyBackend, BackendSQLite)
	v.SetDefault(KeyDataDir, db.DataDir())
	v.SetDefault(KeyDelimiter, notes.Delimiter)
	v.SetDefault(KeyInputAttribute, notes.InputAttribute)
	v.SetDefault(KeyTagTable, notes.TagTable)
	v.SetDefault(KeyTagIDColumn, notes.TagIDColumn)
	v.SetDefault(KeyTagNameColumn, notes.TagNameColumn)
	v.SetDefault(KeyLinkTable, notes.LinkTable)
	v.SetDefault(KeyTagFKColumn, notes.TagFKColumn)
	v.SetDefault(KeyRecordFKColumn, notes.RecordFKColumn)
	v.SetDefault(KeyAllowTagCreation, notes.AllowTagCreation)
	v.SetDefault(KeyNamePattern, "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Backend:     strings.ToLower(v.GetString(KeyBackend)),
		DataDir:     v.GetString(KeyDataDir),
		NamePattern: v.GetString(KeyNamePattern),
		Tagger: tagger.Config{
			Delimiter:        v.GetString(KeyDelimiter),
			InputAttribute:   v.GetString(KeyInputAttribute),
			TagTable:         v.GetString(KeyTagTable),
			TagIDColumn:      v.GetString(KeyTagIDColumn),
			TagNameColumn:    v.GetString(KeyTagNameColumn),
			LinkTable:        v.GetString(KeyLinkTable),
			TagFKColumn:      v.GetString(KeyTagFKColumn),
			RecordFKColumn:   v.GetString(KeyRecordFKColumn),
			AllowTagCreation: v.GetBool(KeyAllowTagCreation),
		},
	}

	switch cfg.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err := cfg.Tagger.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Validator(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validator returns the name policy, or nil when no pattern is configured.
func (c *Config) Validator() (tagger.NameValidator, error) {
	if c.NamePattern == "" {
		return nil, nil
	}
	return tagger.PatternValidator(c.NamePattern)
}

// DBPath is the SQLite database inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "memotag.db")
}

// BadgerDir is the badger directory inside the data directory.
func (c *Config) BadgerDir() string {
	return filepath.Join(c.DataDir, "tags.badger")
}

func ensureDefaultConfigFile(dir string) error {
	path := filepath.Join(dir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o600)
}
