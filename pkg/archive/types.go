package archive

// Format identifies the container format of the output archive.
type Format string

const (
	// FormatZip stores each file as an independent deflated member.
	FormatZip Format = "zip"

	// FormatTarGz wraps a tar entry sequence in a single gzip stream.
	FormatTarGz Format = "tar.gz"

	// Format7z buffers whole files and encodes them with LZMA2.
	Format7z Format = "7z"
)

// Formats lists the supported container formats in display order.
func Formats() []Format {
	return []Format{FormatZip, FormatTarGz, Format7z}
}

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	switch f {
	case FormatZip, FormatTarGz, Format7z:
		return true
	}
	return false
}

// Ext returns the file extension for the format, without a leading dot.
func (f Format) Ext() string {
	return string(f)
}

// Description returns a short human-readable summary of the format.
func (f Format) Description() string {
	switch f {
	case FormatZip:
		return "ZIP archive (best compatibility)"
	case FormatTarGz:
		return "gzip-compressed tarball (common on Linux)"
	case Format7z:
		return "7-Zip archive (highest compression ratio)"
	default:
		return "unknown format"
	}
}

// Target selects the writer strategy and output location for one run.
type Target struct {
	Format     Format
	OutputPath string
}

// Config contains archiver configuration options. Workers and RateLimit
// control the content pre-reader used by the 7z strategy.
type Config struct {
	Workers   int
	RateLimit int
}

// Reporter receives progress events from an archiving run. The archiver
// only emits events; rendering them is the caller's concern.
type Reporter interface {
	// Begin announces the total number of entries about to be written.
	Begin(total int)

	// Entry reports one entry written to the container.
	Entry(relPath string)

	// Complete reports a finalized archive and its size in bytes.
	Complete(bytes int64)

	// Fail reports an aborted run.
	Fail(err error)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) Begin(total int)      {}
func (NopReporter) Entry(relPath string) {}
func (NopReporter) Complete(bytes int64) {}
func (NopReporter) Fail(err error)       {}
