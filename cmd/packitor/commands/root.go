/*
Package commands implements the CLI command structure for Packitor.
It provides the root command and the subcommands for archiving a
directory tree with gitignore-style rule filtering.
*/
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sonemaro/packitor/internal/version"
	"github.com/sonemaro/packitor/pkg/logger"
)

// Options holds command-line options that apply to all commands
type Options struct {
	Verbosity  int
	NoProgress bool
	NoColor    bool

	Log logger.Logger
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "packitor [command] [flags] [path]",
		Short: "Directory archiver with gitignore-style filtering",
		Long: `Packitor v` + version.Version + `

Packitor archives a directory tree into a zip, tar.gz or 7z file,
filtering entries with gitignore-style ignore rules. Rules come from
command-line flags, a packitor.toml config file in the archived
directory, or a separate rule file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.Log = logger.NewLogger(logger.Config{
				Verbosity: opts.Verbosity,
				Output:    os.Stderr,
			})

			opts.Log.WithFields(logger.Fields{
				"verbosity": opts.Verbosity,
				"command":   cmd.Name(),
			}).Debug("Initializing command")
		},
		SilenceUsage: true,
	}

	// Add persistent flags that apply to all commands
	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v",
		"verbose output (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&opts.NoProgress, "no-progress", false,
		"disable progress reporting")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")

	// Add commands
	rootCmd.AddCommand(
		newCompressCommand(opts),
		newListCommand(opts),
		newInitCommand(opts),
		newFormatsCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

// argPath returns the positional path argument, defaulting to the
// current directory.
func argPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}
