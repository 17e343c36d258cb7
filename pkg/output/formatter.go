/*
Package output provides formatters for archive previews in tree, JSON
and YAML formats. It renders the file set a walk selected, with
optional colors and statistics, and backs the `packitor list` command.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatTree,
		WithStats:  true,
		WithColors: true,
	}, log)

	text, err := formatter.Format(root, result)
*/
package output

import (
	"fmt"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
)

// Format represents the output format type
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithStats  bool
	WithColors bool
}

// Formatter renders a walk result for display.
type Formatter interface {
	Format(root string, result walker.Result) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the walk result according to the configured format
func (f *formatter) Format(root string, result walker.Result) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withStats":  f.config.WithStats,
		"withColors": f.config.WithColors,
		"entries":    len(result.Entries),
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatTree:
		return f.formatTree(root, result)
	case FormatJSON:
		return f.formatJSON(root, result)
	case FormatYAML:
		return f.formatYAML(root, result)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}
