package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cgraph/internal/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [table...]",
	Short: "Print the symbols hidden by the keyword tables",
	Long: `Print the names in the ansi, posix, c99 and gcc tables, one per line.
Without arguments every table is printed; names shared by several tables
appear once.

Examples:
  cgraph keywords
  cgraph keywords gcc`,
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	tables := keywords.AllTables
	if len(args) > 0 {
		tables = make([]keywords.Table, 0, len(args))
		for _, a := range args {
			t, err := keywords.ParseTable(a)
			if err != nil {
				return usageError(cmd, "%v", err)
			}
			tables = append(tables, t)
		}
	}

	out := cmd.OutOrStdout()
	for _, name := range keywords.Build(tables...).Sorted() {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
