package main

import (
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"cgraph/internal/config"
	"cgraph/internal/errors"
	"cgraph/internal/keywords"
	"cgraph/internal/scanner"
	"cgraph/internal/version"
)

var (
	// Keyword tables; only the C front end offers them.
	tableANSI  bool
	tablePOSIX bool
	tableC99   bool
	tableGCC   bool
	langFlag   string

	// Shared by every graph-producing command.
	completeFlag     bool
	reversedFlag     bool
	depthFlag        int
	includeFlags     []string
	rootFlag         string
	excludeFileFlag  string
	exportFlag       string
	exportFormatFlag string
	configFlag       string
	verboseFlag      int
	quietFlag        bool
	logFileFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "cgraph [-AcCGPr] [-d num] [-i incl] [-R root] file ...",
	Short: "Print the call graph of C and assembly source files",
	Long: `cgraph scans each file independently and prints its call graph as a
numbered, indented tree starting at the root function (main by default).
When the root is not defined, every symbol nobody calls is listed.

The scanner is chosen by extension (.c/.h: C, .asm/.nasm/.inc: NASM,
.s/.S: GAS) unless --lang is given. Inputs ending in .gz, .zst or .sz
are decompressed first.

Examples:
  cgraph -A -P main.c           # hide ANSI and POSIX library calls
  cgraph -r -i x util.c         # list callers, including variables
  cgraph -d 2 -R init boot.s    # two levels below init
  cgraph --export graph.db a.c  # also store the graph in SQLite`,
	Version:               version.Info(),
	Args:                  cobra.ArbitraryArgs,
	DisableFlagsInUseLine: true,
	SilenceErrors:         true,
	SilenceUsage:          true,
	RunE:                  runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("cgraph version {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, "%v", err)
	})

	f := rootCmd.Flags()
	f.BoolVarP(&tableANSI, "ansi", "A", false, "Hide ANSI C library symbols")
	f.BoolVarP(&tablePOSIX, "posix", "P", false, "Hide POSIX library symbols")
	f.BoolVarP(&tableC99, "c99", "C", false, "Hide C99 library symbols")
	f.BoolVarP(&tableGCC, "gcc", "G", false, "Hide GCC builtins")
	f.StringVar(&langFlag, "lang", "", "Force the scanner: c, nasm or gas (default: by extension)")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&completeFlag, "complete", "c", false, "Keep duplicate calls")
	pf.BoolVarP(&reversedFlag, "reversed", "r", false, "List each symbol's callers instead of its callees")
	pf.IntVarP(&depthFlag, "depth", "d", -1, "Maximum depth below the root; negative is unbounded")
	pf.StringArrayVarP(&includeFlags, "include", "i", nil, "Include variables (x) or private symbols (_)")
	pf.StringVarP(&rootFlag, "root", "R", "main", "Root symbol")
	pf.StringVar(&excludeFileFlag, "exclude-file", "", "TOML file listing extra symbols to hide")
	pf.StringVar(&exportFlag, "export", "", "Also write the graphs to this file")
	pf.StringVar(&exportFormatFlag, "export-format", "", "Export format: json, yaml or sqlite (default: by extension)")
	pf.StringVar(&configFlag, "config", "", "Config file (default: .cgraph.{toml,yaml,json} in . or $HOME)")
	pf.CountVarP(&verboseFlag, "verbose", "v", "Log more (repeatable)")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Log nothing")
	pf.StringVar(&logFileFlag, "log-file", "", "Also write logs to this file")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "no input files")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("lang") {
		lang, err := scanner.ParseLanguage(langFlag)
		if err != nil {
			return usageError(cmd, "%v", err)
		}
		s.Lang = lang
	}

	tables := cfg.Tables()
	for _, sel := range []struct {
		on    bool
		table keywords.Table
	}{
		{tableANSI, keywords.ANSI},
		{tablePOSIX, keywords.POSIX},
		{tableC99, keywords.C99},
		{tableGCC, keywords.GCC},
	} {
		if sel.on {
			tables = append(tables, sel.table)
		}
	}
	s.Render.Exclusions.Add(keywords.Build(tables...).Sorted()...)

	return execute(cmd, args, s)
}

// loadConfig reads --config when given, otherwise searches the working
// directory and $HOME.
func loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		used string
		err  error
	)
	if configFlag != "" {
		cfg, used, err = config.LoadFile(configFlag)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, errors.Config("cannot determine working directory", wdErr)
		}
		cfg, used, err = config.LoadConfig(wd)
	}
	if err != nil {
		return nil, errors.Config("failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		msg := "invalid configuration"
		if used != "" {
			msg = used
		}
		return nil, errors.Config(msg, err)
	}
	return cfg, nil
}

// usageError reports malformed input and carries cmd's usage line.
func usageError(cmd *cobra.Command, format string, args ...any) error {
	return errors.Usagef(format, args...).WithDetails("usage: " + cmd.UseLine())
}

// usageLine extracts the usage line attached by usageError.
func usageLine(err error) string {
	var ce *errors.CgraphError
	if stderrors.As(err, &ce) {
		if s, ok := ce.Details.(string); ok {
			return s
		}
	}
	return ""
}
