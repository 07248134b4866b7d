package main

import (
	"os"

	"whilec/internal/compiler"
	"whilec/internal/logger"
	"whilec/pkg/color"

	"github.com/spf13/cobra"
)

// Main entry point for the whilec compiler front end.
func main() {
	options := compiler.Compiler{}

	cmd := &cobra.Command{
		Use:          "whilec [source file]",
		Short:        "LR(1) front end for a small while language",
		Long:         "whilec lexes and parses a while-language program with a canonical LR(1) parser and emits three-address code. Without a source file it compiles a built-in sample.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(options.Verbose, options.NoColor)
			if options.NoColor {
				color.EnableColor(false)
			}
			if len(args) > 0 {
				options.SourceFile = args[0]
			}
			return options.Compile()
		},
	}

	cmd.Flags().BoolVarP(&options.Verbose, "verbose", "v", false, "verbose logging")
	cmd.Flags().BoolVarP(&options.NoColor, "no-color", "n", false, "disable colored output")
	cmd.Flags().StringVarP(&options.DumpDir, "dump-dir", "d", ".", "directory for items.txt and table.csv")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
