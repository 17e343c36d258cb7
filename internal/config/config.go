package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Format is the archive container format (zip, tar.gz or 7z)
	Format string

	// OutputName is the archive base name without extension (empty
	// to use the archived directory's name)
	OutputName string

	// Ignore is the list of inline ignore patterns
	Ignore []string

	// IgnoreFile is the path to a gitignore-style rule file, relative
	// to the archived directory (empty for none)
	IgnoreFile string

	// Workers is the number of concurrent workers for content reading
	Workers int

	// MaxDepth is the maximum directory depth to walk (-1 for unlimited)
	MaxDepth int

	// RateLimit is the maximum number of file operations per second (0 for unlimited)
	RateLimit int

	// Output specifies the list output format (tree, json, or yaml)
	Output string

	// OutputFile is the path to write list output (empty for stdout)
	OutputFile string

	// NoProgress disables progress reporting
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// Load reads configuration for the directory being archived. The
// packitor.toml file in dir is optional; environment variables override
// it.
func Load(appFs afero.Fs, dir string) (Config, error) {
	v := viper.New()
	v.SetFs(appFs)

	// Set default values
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("max_depth", UnlimitedDepth)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output", "tree")
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Optional config file in the archived directory
	v.SetConfigFile(filepath.Join(dir, DefaultConfigFile))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("PACKITOR")
	v.AutomaticEnv()

	// Map environment variables to config fields
	v.BindEnv("format")
	v.BindEnv("output_name")
	v.BindEnv("ignore")
	v.BindEnv("ignore_file")
	v.BindEnv("workers")
	v.BindEnv("max_depth")
	v.BindEnv("rate_limit")
	v.BindEnv("output")
	v.BindEnv("output_file")
	v.BindEnv("no_progress")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Process verbosity level from string of 'v's
	if verboseStr := v.GetString("verbose"); verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	// Create config instance
	cfg := Config{
		Format:     v.GetString("format"),
		OutputName: v.GetString("output_name"),
		IgnoreFile: v.GetString("ignore_file"),
		Workers:    v.GetInt("workers"),
		MaxDepth:   v.GetInt("max_depth"),
		RateLimit:  v.GetInt("rate_limit"),
		Output:     v.GetString("output"),
		OutputFile: v.GetString("output_file"),
		NoProgress: v.GetBool("no_progress"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Ignore patterns come as a TOML array from the file or as a
	// comma-separated string from the environment
	if raw := v.Get("ignore"); raw != nil {
		if s, ok := raw.(string); ok {
			for _, p := range strings.Split(s, ",") {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					cfg.Ignore = append(cfg.Ignore, trimmed)
				}
			}
		} else {
			cfg.Ignore = v.GetStringSlice("ignore")
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	// Validate archive format
	if !validFormats[c.Format] {
		return fmt.Errorf("unsupported archive format %q: must be one of [zip tar.gz 7z]", c.Format)
	}

	// Validate workers count
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	// Validate max depth
	if c.MaxDepth < UnlimitedDepth {
		return fmt.Errorf("max depth must be -1 (unlimited) or positive")
	}

	// Validate rate limit
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	// Validate list output format
	if !validListFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [tree json yaml]")
	}

	return nil
}

// ResolveOutputName returns the configured archive base name, falling
// back to the name of the directory being archived.
func (c Config) ResolveOutputName(dir string) string {
	if c.OutputName != "" {
		return c.OutputName
	}
	if name := filepath.Base(filepath.Clean(dir)); name != "." && name != string(filepath.Separator) {
		return name
	}
	return "archive"
}

// WriteDefault writes a commented packitor.toml with the default
// configuration to path. Existing files are not overwritten.
func WriteDefault(appFs afero.Fs, path string) error {
	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("config file %s already exists", path)
	}

	var b strings.Builder
	b.WriteString("# Packitor configuration\n")
	b.WriteString("\n")
	b.WriteString("# Archive format: \"zip\", \"tar.gz\" or \"7z\"\n")
	fmt.Fprintf(&b, "format = %q\n", DefaultFormat)
	b.WriteString("\n")
	b.WriteString("# Archive base name without extension (defaults to the directory name)\n")
	b.WriteString("# output_name = \"my-project\"\n")
	b.WriteString("\n")
	b.WriteString("# Ignore rules (gitignore syntax)\n")
	b.WriteString("ignore = [\n")
	for _, rule := range DefaultIgnore {
		fmt.Fprintf(&b, "    %q,\n", rule)
	}
	b.WriteString("]\n")
	b.WriteString("\n")
	b.WriteString("# Extra rule file in gitignore syntax (optional)\n")
	b.WriteString("# ignore_file = \".gitignore\"\n")

	return afero.WriteFile(appFs, path, []byte(b.String()), 0o644)
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Format: %s, OutputName: %s, Workers: %d, MaxDepth: %d, "+
			"RateLimit: %d, Output: %s, NoProgress: %v, NoColor: %v, Verbose: %d, "+
			"Ignore: %v, IgnoreFile: %s}",
		c.Format, c.OutputName, c.Workers, c.MaxDepth,
		c.RateLimit, c.Output, c.NoProgress, c.NoColor, c.Verbose,
		c.Ignore, c.IgnoreFile,
	)
}
