package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sonemaro/packitor/internal/config"
	"github.com/sonemaro/packitor/pkg/logger"
)

func newInitCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter packitor.toml",
		Long: `Create a commented packitor.toml in the given directory (default ".")
with the default format, output name and ignore rules. Fails if the
file already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(argPath(args), config.DefaultConfigFile)

			opts.Log.WithFields(logger.Fields{
				"path": path,
			}).Debug("Writing default config")

			if err := config.WriteDefault(afero.NewOsFs(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
