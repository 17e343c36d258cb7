package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sonemaro/packitor/cmd/packitor/app"
	"github.com/sonemaro/packitor/internal/config"
)

type listOptions struct {
	*Options
	output     string
	outputFile string
	ignore     []string
	ignoreFile string
	maxDepth   int
}

func newListCommand(opts *Options) *cobra.Command {
	lo := &listOptions{
		Options: opts,
	}

	cmd := &cobra.Command{
		Use:   "list [flags] [path]",
		Short: "Preview the files an archive would contain",
		Long: `Walk a directory with the configured ignore rules and print the files
that compress would archive, without writing anything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, argPath(args), lo)
		},
	}

	cmd.Flags().StringVarP(&lo.output, "output", "o", "tree",
		"output format: tree|json|yaml")
	cmd.Flags().StringVarP(&lo.outputFile, "file", "f", "",
		"write output to file instead of stdout")
	cmd.Flags().StringSliceVarP(&lo.ignore, "ignore", "i", nil,
		"ignore patterns (can be specified multiple times)")
	cmd.Flags().StringVar(&lo.ignoreFile, "ignore-file", "",
		"gitignore-style rule file, relative to the listed directory")
	cmd.Flags().IntVarP(&lo.maxDepth, "max-depth", "d", -1,
		"maximum directory depth to walk")

	return cmd
}

func runList(cmd *cobra.Command, path string, opts *listOptions) error {
	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("file") {
		cfg.OutputFile = opts.outputFile
	}
	if flags.Changed("ignore") {
		cfg.Ignore = opts.ignore
	}
	if flags.Changed("ignore-file") {
		cfg.IgnoreFile = opts.ignoreFile
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}

	cfg.NoProgress = true
	cfg.NoColor = cfg.NoColor || opts.NoColor
	cfg.Verbose = opts.Verbosity

	if err := cfg.Validate(); err != nil {
		return err
	}

	application := app.New(&cfg)
	defer application.Shutdown()

	return application.List(path)
}
