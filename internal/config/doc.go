// Package config provides configuration management for the Packitor
// application. It layers built-in defaults, the packitor.toml file in
// the directory being archived, and environment variables, and
// validates the result. Command-line flags are applied on top by the
// command layer.
//
// # Configuration Loading
//
// To load the configuration for a directory:
//
//	cfg, err := config.Load(appFs, dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Config File
//
// A packitor.toml in the archived directory configures a project once
// for every run:
//
//	format = "tar.gz"
//	output_name = "my-project"
//	ignore = ["target/", "*.log", ".git/"]
//	ignore_file = ".gitignore"
//
// Use config.WriteDefault to create a commented starter file (the
// `packitor init` command does this).
//
// # Environment Variables
//
// The following environment variables are supported and override the
// config file:
//
//	PACKITOR_FORMAT       Archive format: zip|tar.gz|7z (default: tar.gz)
//	PACKITOR_OUTPUT_NAME  Archive base name without extension
//	PACKITOR_IGNORE       Comma-separated ignore patterns
//	PACKITOR_IGNORE_FILE  Path to a gitignore-style rule file
//	PACKITOR_WORKERS      Number of concurrent workers (default: CPU cores)
//	PACKITOR_MAX_DEPTH    Maximum directory depth (-1 for unlimited)
//	PACKITOR_RATE_LIMIT   Rate limit for file operations (0 for unlimited)
//	PACKITOR_OUTPUT       List output format: tree|json|yaml
//	PACKITOR_OUTPUT_FILE  List output file path (empty for stdout)
//	PACKITOR_NO_PROGRESS  Disable progress reporting (true/false)
//	PACKITOR_NO_COLOR     Disable colored output (true/false)
//	PACKITOR_VERBOSE      Verbosity level (number of 'v's)
//
// # Configuration Validation
//
// The package performs validation on all configuration values:
//   - Format must be one of: zip, tar.gz, 7z
//   - Workers must be positive and not exceed CPU cores * 4
//   - MaxDepth must be -1 (unlimited) or positive
//   - RateLimit must be non-negative
//   - Output format must be one of: tree, json, yaml
//
// # Ignore Patterns
//
// Ignore rules use gitignore syntax, whether they come from the config
// file, the environment or a rule file:
//
//	Directory Patterns:
//	  - "node_modules/"    - Trailing slash matches directories only
//	  - "**/build"         - Match in any subdirectory
//	  - "/dist"            - Leading slash anchors to the root
//
//	File Patterns:
//	  - "*.log"            - Ignore by extension
//	  - "!important.log"   - Re-include a previously ignored file
//
// Multiple patterns can be combined using commas in the environment:
//
//	PACKITOR_IGNORE="node_modules/,.git/,*.log,dist"
//
// # Thread Safety
//
// The configuration is immutable after loading and is safe for
// concurrent access across multiple goroutines.
package config
