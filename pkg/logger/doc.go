/*
Package logger provides a structured logging solution for the Packitor
application. It wraps uber-go/zap to provide a simpler interface with
support for different verbosity levels and structured logging.

Basic Usage:

	logger := logger.NewLogger(logger.Config{
	    Verbosity: 0,  // Default level (INFO)
	})

	// Simple logging
	logger.Info("Archive started")
	logger.Debug("Compiling ignore rules") // Only shown with verbosity >= 1
	logger.Trace("Matched pattern")        // Only shown with verbosity >= 2

Verbosity Levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Structured Logging:

	logger.WithFields(logger.Fields{
	    "component": "walker",
	    "path":      "/some/path",
	    "files":     42,
	}).Info("Directory walk completed")

Output Example (JSON):

	{
	    "level": "info",
	    "ts": "2024-01-20T15:04:05.000Z",
	    "message": "Directory walk completed",
	    "component": "walker",
	    "path": "/some/path",
	    "files": 42
	}

Configuration:

	type Config struct {
	    Verbosity int       // Logging verbosity level
	    Output    io.Writer // Output writer (defaults to os.Stderr)
	}

Environment Integration:

	verbosity := 0
	if verbose := os.Getenv("PACKITOR_VERBOSE"); verbose != "" {
	    verbosity = len(verbose)  // Each 'v' increases verbosity
	}

	logger := logger.NewLogger(logger.Config{
	    Verbosity: verbosity,
	})

Thread Safety:

The logger is safe for concurrent use by multiple goroutines.
All logging methods can be called concurrently.

Error Handling Example:

	if err != nil {
	    logger.WithFields(logger.Fields{
	        "error": err.Error(),
	        "file":  filename,
	    }).Error("Failed to archive file")
	}

Performance Considerations:

The logger uses uber-go/zap internally, which provides high-performance
structured logging. Field allocation is only done when the log level
is enabled.
*/
package logger
