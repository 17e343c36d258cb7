package config

// Constants for configuration limits and defaults
const (
	// DefaultConfigFile is the config file name looked up in the
	// directory being archived
	DefaultConfigFile = "packitor.toml"

	// DefaultFormat is the archive format used when none is configured
	DefaultFormat = "tar.gz"

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4

	// UnlimitedDepth represents unlimited directory depth
	UnlimitedDepth = -1
)

// validFormats contains the supported archive formats
var validFormats = map[string]bool{
	"zip":    true,
	"tar.gz": true,
	"7z":     true,
}

// validListFormats contains the supported list output formats
var validListFormats = map[string]bool{
	"tree": true,
	"json": true,
	"yaml": true,
}

// DefaultIgnore is the rule set written by `packitor init` and applied
// when neither the config file nor the flags configure any rules.
var DefaultIgnore = []string{
	"target/",
	"*.tmp",
	"*.log",
	".DS_Store",
	"Thumbs.db",
	"*.swp",
	"*.swo",
	"*~",
	".git/",
	".svn/",
	".hg/",
	"node_modules/",
	"__pycache__/",
	".pytest_cache/",
	".venv/",
	"venv/",
	"env/",
	"*.pyc",
	"*.pyo",
	"*.pyd",
	".idea/",
	".vscode/",
	"*.iml",
}
