package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate points HOME at an empty directory so a developer's own
// ~/.cgraph.toml never leaks into the tests.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Root != "main" {
		t.Errorf("Root = %q, want main", cfg.Root)
	}
	if cfg.MaxDepth != -1 {
		t.Errorf("MaxDepth = %d, want -1 (unbounded)", cfg.MaxDepth)
	}
	if cfg.Complete || cfg.Reversed || cfg.IncludeVariables || cfg.IncludePrivate {
		t.Error("all mode switches should default to off")
	}
	if cfg.Asm.Dialect != "nasm" {
		t.Errorf("Asm.Dialect = %q, want nasm", cfg.Asm.Dialect)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, used, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if used != "" {
		t.Errorf("no file should be used, got %q", used)
	}
	want := DefaultConfig()
	if cfg.Root != want.Root || cfg.MaxDepth != want.MaxDepth || cfg.Asm != want.Asm || cfg.Logging != want.Logging {
		t.Errorf("LoadConfig() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: ".cgraph.toml",
			content: `root = "start"
maxDepth = 2
reversed = true
exclude = ["ansi", "gcc"]

[logging]
level = "debug"
`,
		},
		{
			name: "yaml",
			file: ".cgraph.yaml",
			content: `root: start
maxDepth: 2
reversed: true
exclude: [ansi, gcc]
logging:
  level: debug
`,
		},
		{
			name:    "json",
			file:    ".cgraph.json",
			content: `{"root": "start", "maxDepth": 2, "reversed": true, "exclude": ["ansi", "gcc"], "logging": {"level": "debug"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			cfg, used, err := LoadConfig(dir)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if filepath.Base(used) != tt.file {
				t.Errorf("used %q, want %s", used, tt.file)
			}
			if cfg.Root != "start" || cfg.MaxDepth != 2 || !cfg.Reversed {
				t.Errorf("file values not applied: %+v", cfg)
			}
			if !reflect.DeepEqual(cfg.Exclude, []string{"ansi", "gcc"}) {
				t.Errorf("Exclude = %v", cfg.Exclude)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
			}
			// Keys absent from the file keep their defaults.
			if cfg.Asm.Dialect != "nasm" || cfg.Logging.MaxBackups != 3 {
				t.Errorf("defaults lost for unset keys: %+v", cfg)
			}
		})
	}
}

func TestLoadConfig_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".cgraph.toml"), "root = \"from_home\"\n")

	cfg, _, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "from_home" {
		t.Errorf("Root = %q, want from_home", cfg.Root)
	}
}

func TestLoadConfig_WorkingDirWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".cgraph.toml"), "root = \"from_home\"\n")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".cgraph.toml"), "root = \"from_dir\"\n")

	cfg, _, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "from_dir" {
		t.Errorf("Root = %q, want from_dir", cfg.Root)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".cgraph.toml"), "root = \"start\"\nmaxDepth = 2\n")
	t.Setenv("CGRAPH_MAXDEPTH", "5")
	t.Setenv("CGRAPH_LOGGING_LEVEL", "info")

	cfg, _, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5 from environment", cfg.MaxDepth)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info from environment", cfg.Logging.Level)
	}
	if cfg.Root != "start" {
		t.Errorf("Root = %q, want start from file", cfg.Root)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".cgraph.toml"), "root = [unterminated\n")

	if _, _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "root: entry\nasm:\n  dialect: gas\n")

	cfg, used, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Root != "entry" || cfg.Asm.Dialect != "gas" {
		t.Errorf("LoadFile() = %+v", cfg)
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing explicit file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".cgraph.toml")

	cfg := DefaultConfig()
	cfg.Root = "kmain"
	cfg.Exclude = []string{"posix"}
	cfg.Logging.File = "/tmp/cgraph.log"
	if err := cfg.Save(path, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Root != "kmain" || loaded.Logging.File != "/tmp/cgraph.log" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Exclude, []string{"posix"}) {
		t.Errorf("Exclude = %v", loaded.Exclude)
	}

	if err := cfg.Save(path, false); !errors.Is(err, os.ErrExist) {
		t.Errorf("Save without overwrite should fail with ErrExist, got %v", err)
	}
	if err := cfg.Save(path, true); err != nil {
		t.Errorf("Save with overwrite failed: %v", err)
	}
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultConfig().WriteTOML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`root = "main"`, "maxDepth = -1", "[asm]", `dialect = "nasm"`, "[logging]"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOML output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad version", func(c *Config) { c.Version = 9 }, "version"},
		{"empty root", func(c *Config) { c.Root = "" }, "root"},
		{"unknown table", func(c *Config) { c.Exclude = []string{"ansi", "k&r"} }, "exclude"},
		{"table case", func(c *Config) { c.Exclude = []string{"GCC"} }, ""},
		{"unknown lang", func(c *Config) { c.Lang = "fortran" }, "lang"},
		{"gas lang", func(c *Config) { c.Lang = "gas" }, ""},
		{"unknown dialect", func(c *Config) { c.Asm.Dialect = "masm" }, "asm.dialect"},
		{"unknown export", func(c *Config) { c.Export.Format = "xml" }, "export.format"},
		{"sqlite export", func(c *Config) { c.Export.Format = "sqlite" }, ""},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.maxBackups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Validate() = %v, want *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestTables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{"ansi", "C99"}

	tables := cfg.Tables()
	if len(tables) != 2 || tables[0] != "ansi" || tables[1] != "c99" {
		t.Errorf("Tables() = %v", tables)
	}
}
