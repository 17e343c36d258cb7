/*
Package app provides the main application container and orchestration for
Packitor. It wires the ignore engine, walker, archiver and output layers
together, manages component lifecycle, and handles graceful shutdown.

Usage:

	application := app.New(cfg)
	defer application.Shutdown()
	if err := application.Compress(path); err != nil {
	    log.Fatal(err)
	}
*/
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/sonemaro/packitor/internal/config"
	"github.com/sonemaro/packitor/pkg/archive"
	"github.com/sonemaro/packitor/pkg/ignore"
	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/output"
	"github.com/sonemaro/packitor/pkg/progress"
	"github.com/sonemaro/packitor/pkg/util"
	"github.com/sonemaro/packitor/pkg/walker"
)

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs

	progress progress.Progress

	ctx     context.Context
	cancel  context.CancelFunc
	signals chan os.Signal
	done    chan struct{}
	mu      sync.RWMutex
}

// New creates a new application instance backed by the OS filesystem.
func New(cfg *config.Config) *App {
	return NewWithFs(cfg, afero.NewOsFs())
}

// NewWithFs creates a new application instance on the given filesystem.
func NewWithFs(cfg *config.Config, fs afero.Fs) *App {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:  cfg,
		fs:      fs,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	app.initLogger()
	app.initComponents()
	app.setupSignalHandling()

	app.log.WithFields(logger.Fields{
		"format":  cfg.Format,
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return app
}

// Compress walks path with the configured ignore rules and writes the
// selected files into a single archive inside path.
func (a *App) Compress(path string) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	if err := a.validatePath(path); err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"path":   path,
		"format": a.config.Format,
	}).Info("Starting compress operation")

	result, err := a.walk(path)
	if err != nil {
		return err
	}

	format := archive.Format(a.config.Format)
	name := a.config.ResolveOutputName(path)
	outputPath := filepath.Join(path, name+"."+format.Ext())

	var reporter archive.Reporter = archive.NopReporter{}
	if !a.config.NoProgress && a.progress.IsSupportedTerminal() {
		reporter = progress.NewReporter(a.progress)
	}

	archiver := archive.New(archive.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	}, a.fs, a.log, reporter)

	ctx, cancel := context.WithTimeout(a.ctx, 1*time.Hour)
	defer cancel()

	size, err := archiver.Write(ctx, path, result.Entries, archive.Target{
		Format:     format,
		OutputPath: outputPath,
	})
	if err != nil {
		return fmt.Errorf("archive operation failed: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"output":   outputPath,
		"files":    len(result.Entries),
		"size":     util.FormatSize(size),
		"duration": result.Stats.Duration,
	}).Info("Compress operation completed")

	fmt.Fprintf(os.Stdout, "Wrote %s (%d files, %s)\n",
		outputPath, len(result.Entries), util.FormatSize(size))

	return nil
}

// List walks path with the configured ignore rules and prints the files
// an archive would contain, without writing one.
func (a *App) List(path string) error {
	if err := a.validatePath(path); err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"path":   path,
		"output": a.config.Output,
	}).Info("Starting list operation")

	result, err := a.walk(path)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(output.Config{
		Format:     output.Format(a.config.Output),
		WithStats:  true,
		WithColors: !a.config.NoColor,
	}, a.log)

	text, err := formatter.Format(path, result)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}

	return a.writeOutput(text, a.config.OutputFile)
}

// walk builds the ignore matcher and traverses path, logging per-path
// walk errors as warnings.
func (a *App) walk(path string) (walker.Result, error) {
	matcher, err := a.buildMatcher(path)
	if err != nil {
		return walker.Result{}, err
	}

	w := walker.New(walker.Config{
		MaxDepth: a.config.MaxDepth,
	}, a.fs, matcher, a.log)

	ctx, cancel := context.WithTimeout(a.ctx, 1*time.Hour)
	defer cancel()

	result, err := w.Walk(ctx, path)
	if err != nil {
		return walker.Result{}, fmt.Errorf("walk operation failed: %w", err)
	}

	for p, walkErr := range result.Errors {
		a.log.WithFields(logger.Fields{
			"path":  p,
			"error": walkErr,
		}).Warn("Skipped unreadable path")
	}

	return result, nil
}

// buildMatcher compiles the effective rule set for a run. Inline rules
// come first, then the ignore file, so file rules win on conflicts via
// last-match. The built-in defaults apply only when neither source is
// configured.
func (a *App) buildMatcher(path string) (*ignore.Matcher, error) {
	inline := a.config.Ignore
	fileLines := a.readIgnoreFile(path)

	lines := ignore.MergeLines(inline, fileLines)
	if len(lines) == 0 {
		lines = config.DefaultIgnore
		a.log.Debug("No ignore rules configured, using defaults")
	}

	rules, err := ignore.Compile(lines)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore rules: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"inline": len(inline),
		"file":   len(fileLines),
		"rules":  rules.Len(),
	}).Debug("Compiled ignore rules")

	return ignore.NewMatcher(rules, a.log), nil
}

// readIgnoreFile loads the configured rule file relative to path. A
// missing or unreadable file is logged and treated as empty.
func (a *App) readIgnoreFile(path string) []string {
	if a.config.IgnoreFile == "" {
		return nil
	}

	filePath := a.config.IgnoreFile
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(path, filePath)
	}

	data, err := afero.ReadFile(a.fs, filePath)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"path":  filePath,
			"error": err,
		}).Warn("Could not read ignore file, continuing without it")
		return nil
	}

	return strings.Split(string(data), "\n")
}

// InitConfig writes a starter config file into path.
func (a *App) InitConfig(path string) error {
	configPath := filepath.Join(path, config.DefaultConfigFile)

	if err := config.WriteDefault(a.fs, configPath); err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"path": configPath,
	}).Info("Default configuration written")

	return nil
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	default:
	}

	a.log.Debug("Initiating graceful shutdown")

	a.cancel()
	a.progress.Stop()

	close(a.done)
	a.log.Debug("Shutdown complete")
	return nil
}

// initLogger initializes the application logger
func (a *App) initLogger() {
	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
		Output:    os.Stderr,
	})

	a.log.WithFields(logger.Fields{
		"verbosity": a.config.Verbose,
	}).Debug("Logger initialized")
}

// initComponents initializes all application components
func (a *App) initComponents() {
	a.log.Debug("Initializing application components")

	a.progress = progress.New(progress.Config{
		Style:             progress.StyleBar,
		ShowStats:         true,
		NoColor:           a.config.NoColor,
		RefreshRate:       100 * time.Millisecond,
		HideAfterComplete: false,
	}, a.log)

	a.log.Debug("Components initialized successfully")
}

// writeOutput writes the formatted output to the specified destination
func (a *App) writeOutput(content string, outputPath string) error {
	if outputPath == "" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}

	err := afero.WriteFile(a.fs, outputPath, []byte(content), 0644)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  outputPath,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path": outputPath,
	}).Info("Output written successfully")
	return nil
}

// validatePath checks that path exists and is a directory.
func (a *App) validatePath(path string) error {
	info, err := a.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			a.log.WithFields(logger.Fields{
				"path": path,
			}).Error("Path does not exist")
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		a.log.WithFields(logger.Fields{
			"path": path,
		}).Error("Path is not a directory")
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}
