// Package config loads cgraph settings from .cgraph.{toml,yaml,json} files
// and CGRAPH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"cgraph/internal/keywords"
	"cgraph/internal/scanner"
	"cgraph/internal/slogutil"
)

// CurrentVersion is the config schema version written by "config init".
const CurrentVersion = 1

// FileName is the base name looked up in each search directory.
const FileName = ".cgraph"

// EnvPrefix prefixes every environment override, as in CGRAPH_MAXDEPTH.
const EnvPrefix = "CGRAPH"

// Config represents the complete cgraph configuration
type Config struct {
	Version int `toml:"version" json:"version" yaml:"version" mapstructure:"version"`

	// Root is the traversal root symbol.
	Root string `toml:"root" json:"root" yaml:"root" mapstructure:"root"`

	// MaxDepth bounds forward traversal; negative is unbounded.
	MaxDepth int `toml:"maxDepth" json:"maxDepth" yaml:"maxDepth" mapstructure:"maxDepth"`

	Complete         bool `toml:"complete" json:"complete" yaml:"complete" mapstructure:"complete"`
	Reversed         bool `toml:"reversed" json:"reversed" yaml:"reversed" mapstructure:"reversed"`
	IncludeVariables bool `toml:"includeVariables" json:"includeVariables" yaml:"includeVariables" mapstructure:"includeVariables"`
	IncludePrivate   bool `toml:"includePrivate" json:"includePrivate" yaml:"includePrivate" mapstructure:"includePrivate"`

	// Exclude names the keyword tables to hide (ansi, posix, c99, gcc).
	Exclude []string `toml:"exclude" json:"exclude" yaml:"exclude" mapstructure:"exclude"`

	// ExcludeFile is a TOML file with extra symbols to hide.
	ExcludeFile string `toml:"excludeFile" json:"excludeFile" yaml:"excludeFile" mapstructure:"excludeFile"`

	// Lang forces a scanner; empty selects one by file extension.
	Lang string `toml:"lang" json:"lang" yaml:"lang" mapstructure:"lang"`

	Asm     AsmConfig     `toml:"asm" json:"asm" yaml:"asm" mapstructure:"asm"`
	Export  ExportConfig  `toml:"export" json:"export" yaml:"export" mapstructure:"export"`
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging" mapstructure:"logging"`
}

// AsmConfig configures the assembly front end
type AsmConfig struct {
	// Dialect is "nasm" or "gas".
	Dialect string `toml:"dialect" json:"dialect" yaml:"dialect" mapstructure:"dialect"`
}

// ExportConfig configures graph export
type ExportConfig struct {
	Path   string `toml:"path" json:"path" yaml:"path" mapstructure:"path"`
	Format string `toml:"format" json:"format" yaml:"format" mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level" json:"level" yaml:"level" mapstructure:"level"`
	File       string `toml:"file" json:"file" yaml:"file" mapstructure:"file"`
	MaxSize    string `toml:"maxSize" json:"maxSize" yaml:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `toml:"maxBackups" json:"maxBackups" yaml:"maxBackups" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentVersion,
		Root:     "main",
		MaxDepth: -1,
		Exclude:  []string{},
		Asm: AsmConfig{
			Dialect: string(scanner.LangNASM),
		},
		Logging: LoggingConfig{
			Level:      "warn",
			MaxBackups: 3,
		},
	}
}

// defaults registers every key with viper so that environment overrides
// and partial files both fall back to DefaultConfig.
func defaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("root", d.Root)
	v.SetDefault("maxDepth", d.MaxDepth)
	v.SetDefault("complete", d.Complete)
	v.SetDefault("reversed", d.Reversed)
	v.SetDefault("includeVariables", d.IncludeVariables)
	v.SetDefault("includePrivate", d.IncludePrivate)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("excludeFile", d.ExcludeFile)
	v.SetDefault("lang", d.Lang)
	v.SetDefault("asm.dialect", d.Asm.Dialect)
	v.SetDefault("export.path", d.Export.Path)
	v.SetDefault("export.format", d.Export.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig looks for .cgraph.{toml,yaml,json} in dir and then in the
// user's home directory. A missing file yields the defaults (plus any
// environment overrides).
func LoadConfig(dir string) (*Config, string, error) {
	v := newViper()
	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// LoadFile loads an explicit configuration file; its format follows the
// extension.
func LoadFile(path string) (*Config, string, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, string, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// WriteTOML encodes the configuration as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes the configuration as TOML to path. An existing file is only
// replaced when overwrite is set.
func (c *Config) Save(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if err := c.WriteTOML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &FieldError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if c.Root == "" {
		return &FieldError{Field: "root", Message: "must not be empty"}
	}
	for _, name := range c.Exclude {
		if _, err := keywords.ParseTable(name); err != nil {
			return &FieldError{Field: "exclude", Message: err.Error()}
		}
	}
	if c.Lang != "" {
		if _, err := scanner.ParseLanguage(c.Lang); err != nil {
			return &FieldError{Field: "lang", Message: err.Error()}
		}
	}
	switch c.Asm.Dialect {
	case string(scanner.LangNASM), string(scanner.LangGAS):
	default:
		return &FieldError{Field: "asm.dialect", Message: fmt.Sprintf("unknown dialect %q", c.Asm.Dialect)}
	}
	switch c.Export.Format {
	case "", "json", "yaml", "sqlite":
	default:
		return &FieldError{Field: "export.format", Message: fmt.Sprintf("unknown format %q", c.Export.Format)}
	}
	if !slogutil.ValidLevel(c.Logging.Level) {
		return &FieldError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Logging.MaxBackups < 0 {
		return &FieldError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	return nil
}

// Tables returns the parsed exclusion tables.
func (c *Config) Tables() []keywords.Table {
	tables := make([]keywords.Table, 0, len(c.Exclude))
	for _, name := range c.Exclude {
		if t, err := keywords.ParseTable(name); err == nil {
			tables = append(tables, t)
		}
	}
	return tables
}

// FieldError reports an invalid configuration field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
