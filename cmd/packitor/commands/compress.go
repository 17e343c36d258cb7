package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sonemaro/packitor/cmd/packitor/app"
	"github.com/sonemaro/packitor/internal/config"
)

type compressOptions struct {
	*Options
	format     string
	outputName string
	ignore     []string
	ignoreFile string
	workers    int
	maxDepth   int
	rateLimit  int
}

func newCompressCommand(opts *Options) *cobra.Command {
	co := &compressOptions{
		Options: opts,
	}

	cmd := &cobra.Command{
		Use:   "compress [flags] [path]",
		Short: "Archive a directory",
		Long: `Archive a directory into a zip, tar.gz or 7z file, skipping entries
matched by the ignore rules. The archive is written into the directory
itself, named after it unless --output-name is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, argPath(args), co)
		},
	}

	cmd.Flags().StringVarP(&co.format, "format", "t", "",
		"archive format: zip|tar.gz|7z (default from config, then tar.gz)")
	cmd.Flags().StringVarP(&co.outputName, "output-name", "o", "",
		"archive base name without extension (default: directory name)")
	cmd.Flags().StringSliceVarP(&co.ignore, "ignore", "i", nil,
		"ignore patterns (can be specified multiple times)")
	cmd.Flags().StringVar(&co.ignoreFile, "ignore-file", "",
		"gitignore-style rule file, relative to the archived directory")
	cmd.Flags().IntVarP(&co.workers, "workers", "w", 0,
		"number of concurrent workers (default: number of CPUs)")
	cmd.Flags().IntVarP(&co.maxDepth, "max-depth", "d", -1,
		"maximum directory depth to walk")
	cmd.Flags().IntVarP(&co.rateLimit, "rate-limit", "r", 0,
		"rate limit for file operations (ops/sec)")

	return cmd
}

func runCompress(cmd *cobra.Command, path string, opts *compressOptions) error {
	cfg, err := loadConfig(cmd, path, opts)
	if err != nil {
		return err
	}

	application := app.New(&cfg)
	defer application.Shutdown()

	return application.Compress(path)
}

// loadConfig layers flag values over the directory's configuration.
// Only flags the user actually set override the config file.
func loadConfig(cmd *cobra.Command, path string, opts *compressOptions) (config.Config, error) {
	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("output-name") {
		cfg.OutputName = opts.outputName
	}
	if flags.Changed("ignore") {
		cfg.Ignore = opts.ignore
	}
	if flags.Changed("ignore-file") {
		cfg.IgnoreFile = opts.ignoreFile
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = opts.rateLimit
	}

	cfg.NoProgress = cfg.NoProgress || opts.NoProgress
	cfg.NoColor = cfg.NoColor || opts.NoColor
	cfg.Verbose = opts.Verbosity

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
