package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cgraph/internal/errors"
	"cgraph/internal/export"
	"cgraph/internal/source"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// since cobra keeps parsed values in package variables between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the command tree in an isolated working directory and
// HOME, returning what was written to stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	oldWD, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const nasmSource = `main:
    call foo
    call exit
    ret
foo:
    ret
`

func TestRoot_RendersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)

	stdout, _, err := runCLI(t, dir, "prog.asm")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	want := "1 main: (), <prog.asm 1>\n" +
		"2       foo: (), <prog.asm 5>\n" +
		"3      exit: <>\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}
}

func TestRoot_KeywordTables(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)

	stdout, _, err := runCLI(t, dir, "-A", "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stdout, "exit") {
		t.Errorf("-A should hide exit:\n%s", stdout)
	}
	if !strings.Contains(stdout, "foo") {
		t.Errorf("foo should remain:\n%s", stdout)
	}
}

func TestRoot_DepthAndRoot(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)

	stdout, _, err := runCLI(t, dir, "-d", "0", "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "1 main: (), <prog.asm 1>\n" {
		t.Errorf("depth 0 output = %q", stdout)
	}

	stdout, _, err = runCLI(t, dir, "-R", "foo", "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "1 foo: (), <prog.asm 5>\n" {
		t.Errorf("-R foo output = %q", stdout)
	}
}

func TestRoot_LangOverride(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.txt", "main:\n\tcall helper\n\tret\nhelper:\n\tret\n")

	stdout, _, err := runCLI(t, dir, "--lang", "gas", "prog.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "helper: (), <prog.txt 4>") {
		t.Errorf("GAS scan expected:\n%s", stdout)
	}

	_, _, err = runCLI(t, dir, "--lang", "cobol", "prog.txt")
	if !errors.Is(err, errors.Usage) {
		t.Errorf("unknown --lang should be a usage error, got %v", err)
	}
}

func TestRoot_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)

	tests := []struct {
		name string
		args []string
	}{
		{"no files", nil},
		{"bad include", []string{"-i", "y", "prog.asm"}},
		{"long include", []string{"-i", "x_", "prog.asm"}},
		{"bad depth", []string{"-d", "deep", "prog.asm"}},
		{"unknown flag", []string{"-Z", "prog.asm"}},
		{"bad export format", []string{"--export", "out", "--export-format", "xml", "prog.asm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, dir, tt.args...)
			if !errors.Is(err, errors.Usage) {
				t.Fatalf("Execute() = %v, want a usage error", err)
			}
			if stdout != "" {
				t.Errorf("no graph should be printed, got %q", stdout)
			}

			var buf bytes.Buffer
			report(&buf, err)
			if !strings.Contains(buf.String(), "usage: cgraph [-AcCGPr] [-d num] [-i incl] [-R root] file ...") {
				t.Errorf("report should print the usage line:\n%s", buf.String())
			}
		})
	}
}

func TestRoot_MissingFileStopsRun(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.asm", nasmSource)
	writeSource(t, dir, "c.asm", "other:\n\tret\n")

	stdout, _, err := runCLI(t, dir, "a.asm", "missing.asm", "c.asm")
	if !errors.Is(err, errors.IOError) {
		t.Fatalf("Execute() = %v, want an IO error", err)
	}
	if got := errors.Diagnostic(err); got != "missing.asm: no such file or directory" {
		t.Errorf("Diagnostic() = %q", got)
	}
	if !strings.Contains(stdout, "main") {
		t.Errorf("the first file should have been rendered:\n%s", stdout)
	}
	if strings.Contains(stdout, "other") {
		t.Errorf("files after the failure must not be processed:\n%s", stdout)
	}
	if errors.ExitCode(err) != 1 {
		t.Errorf("ExitCode() = %d, want 1", errors.ExitCode(err))
	}
}

func TestRoot_CompressedInputAndExport(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "prog.asm.gz"))
	if err != nil {
		t.Fatal(err)
	}
	zw, err := source.NewWriter(f, source.CodecGzip)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte(nasmSource)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, dir, "--export", "graph.yaml.zst", "prog.asm.gz")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "1 main: (), <prog.asm.gz 1>\n") {
		t.Errorf("compressed NASM input not scanned:\n%s", stdout)
	}

	data, err := source.ReadFile(filepath.Join(dir, "graph.yaml.zst"))
	if err != nil {
		t.Fatalf("export not readable: %v", err)
	}
	if !strings.Contains(string(data), "language: nasm") {
		t.Errorf("YAML export missing run:\n%s", data)
	}
}

func TestRoot_ExportJSON(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.asm", nasmSource)
	writeSource(t, dir, "b.asm", "start:\n\tjmp start\n")

	if _, _, err := runCLI(t, dir, "--export", "out.json", "a.asm", "b.asm"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatal(err)
	}
	var b export.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatal(err)
	}
	if len(b.Runs) != 2 || b.Runs[0].File != "a.asm" || b.Runs[1].File != "b.asm" {
		t.Fatalf("runs = %+v", b.Runs)
	}
	if b.Runs[0].Language != "nasm" || !b.Runs[0].RootBound || b.Runs[1].RootBound {
		t.Errorf("run metadata = %+v / %+v", b.Runs[0], b.Runs[1])
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)
	writeSource(t, dir, ".cgraph.toml", "root = \"foo\"\nmaxDepth = 0\n")

	stdout, _, err := runCLI(t, dir, "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "1 foo: (), <prog.asm 5>\n" {
		t.Errorf("config root not applied: %q", stdout)
	}

	// An explicit flag beats the file.
	stdout, _, err = runCLI(t, dir, "-R", "main", "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "1 main: (), <prog.asm 1>\n" {
		t.Errorf("flag should override config: %q", stdout)
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)
	writeSource(t, dir, ".cgraph.toml", "exclude = [\"k&r\"]\n")

	_, _, err := runCLI(t, dir, "prog.asm")
	if !errors.Is(err, errors.ConfigError) {
		t.Errorf("Execute() = %v, want a config error", err)
	}
}

func TestRoot_ExcludeFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "prog.asm", nasmSource)
	writeSource(t, dir, "hide.toml", "symbols = [\"foo\"]\n")

	stdout, _, err := runCLI(t, dir, "--exclude-file", "hide.toml", "prog.asm")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stdout, "foo") {
		t.Errorf("foo should be hidden:\n%s", stdout)
	}
}

func TestAsm_Dialects(t *testing.T) {
	dir := t.TempDir()
	// Valid in both syntaxes; only GAS treats "#" as a comment.
	writeSource(t, dir, "boot.x", "main:\n\tcall setup # call hidden\n\tret\nsetup:\n\tret\n")

	stdout, _, err := runCLI(t, dir, "asm", "-a", "boot.x")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "setup: (), <boot.x 4>") || strings.Contains(stdout, "hidden") {
		t.Errorf("GAS output:\n%s", stdout)
	}

	if _, _, err := runCLI(t, dir, "asm", "-a", "-n", "boot.x"); err == nil {
		t.Error("-a and -n together should be rejected")
	}

	_, _, err = runCLI(t, dir, "asm")
	if !errors.Is(err, errors.Usage) {
		t.Fatalf("asm without files = %v, want usage error", err)
	}
	var buf bytes.Buffer
	report(&buf, err)
	if !strings.Contains(buf.String(), "usage: cgraph asm [-acnr]") {
		t.Errorf("asm usage line missing:\n%s", buf.String())
	}
}

func TestAsmDialect(t *testing.T) {
	tests := []struct {
		gas, nasm  bool
		configured string
		want       string
	}{
		{false, false, "", "nasm"},
		{false, false, "gas", "gas"},
		{true, false, "nasm", "gas"},
		{false, true, "gas", "nasm"},
	}
	defer func() { asmGAS, asmNASM = false, false }()

	for _, tt := range tests {
		asmGAS, asmNASM = tt.gas, tt.nasm
		if got := asmDialect(tt.configured); string(got) != tt.want {
			t.Errorf("asmDialect(gas=%v, nasm=%v, %q) = %s, want %s", tt.gas, tt.nasm, tt.configured, got, tt.want)
		}
	}
}

func TestKeywordsCommand(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "keywords", "gcc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "__builtin_expect\n") || strings.Contains(stdout, "\nmalloc\n") {
		t.Errorf("gcc table output unexpected:\n%s", stdout)
	}

	_, _, err = runCLI(t, t.TempDir(), "keywords", "k&r")
	if !errors.Is(err, errors.Usage) {
		t.Errorf("unknown table = %v, want usage error", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, dir, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ".cgraph.toml")
	if !strings.Contains(stdout, path) {
		t.Errorf("init output = %q", stdout)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, _, err := runCLI(t, dir, "config", "init"); !errors.Is(err, errors.ConfigError) {
		t.Errorf("second init = %v, want a config error", err)
	}
	if _, _, err := runCLI(t, dir, "config", "init", "--force"); err != nil {
		t.Errorf("init --force = %v", err)
	}

	stdout, _, err = runCLI(t, dir, "config", "show", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var shown map[string]any
	if err := json.Unmarshal([]byte(stdout), &shown); err != nil {
		t.Fatalf("config show json: %v\n%s", err, stdout)
	}
	if shown["root"] != "main" {
		t.Errorf("root = %v", shown["root"])
	}

	stdout, _, err = runCLI(t, dir, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `root = "main"`) {
		t.Errorf("config show toml:\n%s", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "cgraph version ") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("nil error printed %q", buf.String())
	}

	report(&buf, errors.IO("x.c", fmt.Errorf("permission denied")))
	if buf.String() != "x.c: permission denied\n" {
		t.Errorf("report() = %q", buf.String())
	}
}
