package main

import (
	"github.com/spf13/cobra"

	"cgraph/internal/scanner"
)

var (
	asmGAS  bool
	asmNASM bool
)

var asmCmd = &cobra.Command{
	Use:   "asm [-acnr] [-d num] [-i incl] [-R root] file ...",
	Short: "Print the call graph of NASM or GAS assembly files",
	Long: `asm scans every file with one assembly dialect, regardless of its
extension. NASM is the default; -a selects the GNU assembler syntax.
Keyword tables are not available here.

Examples:
  cgraph asm boot.asm
  cgraph asm -a -R _start start.s`,
	Args:                  cobra.ArbitraryArgs,
	DisableFlagsInUseLine: true,
	RunE:                  runAsm,
}

func init() {
	asmCmd.Flags().BoolVarP(&asmGAS, "gas", "a", false, "Use the GAS (AT&T) scanner")
	asmCmd.Flags().BoolVarP(&asmNASM, "nasm", "n", false, "Use the NASM scanner")
	asmCmd.MarkFlagsMutuallyExclusive("gas", "nasm")
	rootCmd.AddCommand(asmCmd)
}

func runAsm(cmd *cobra.Command, args []string) error {
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
	s.Lang = asmDialect(cfg.Asm.Dialect)

	return execute(cmd, args, s)
}

// asmDialect picks the scanner: -a or -n when given, else the configured
// dialect.
func asmDialect(configured string) scanner.Language {
	switch {
	case asmGAS:
		return scanner.LangGAS
	case asmNASM:
		return scanner.LangNASM
	case configured == string(scanner.LangGAS):
		return scanner.LangGAS
	default:
		return scanner.LangNASM
	}
}
