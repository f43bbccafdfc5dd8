// Package main implements the inspect CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"inspect/internal/version"
)

// newRootCmd builds the root command. Tests build their own instance so flag
// state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inspect [flags] <bytecode-file>",
		Short: "Inspect compiled script bytecode",
		Long: `Inspect decodes a compiled script container and dumps its structure:
the atom table, live heap object headers and function bytecode, recursively
through every constant pool. Output is written to the console and to a
<name>-dump.txt file next to the input.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runInspect,
		SilenceErrors: false,
	}
	root.Version = version.Version
	root.AddCommand(versionCmd)

	root.Flags().BoolP("atoms", "a", false, "dump the atom table")
	root.Flags().BoolP("objects", "o", false, "dump live heap object headers")
	root.Flags().BoolP("functions", "f", false, "dump function bytecode recursively")
	root.Flags().String("export", "", "also write the decoded graph as msgpack to this path")
	root.Flags().Bool("no-file", false, "write to the console only, skip the dump file")
	root.Flags().String("config", "", "explicit inspect.toml path (default: discovered next to the input)")
	root.PersistentFlags().String("color", "auto", "colorize console output (auto|on|off)")
	return root
}

// main executes the root command. Any error exits with status code 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
