package output

import (
	"encoding/json"
	"time"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
)

// listEntry is one selected file in JSON or YAML output
type listEntry struct {
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modTime" yaml:"modTime"`
}

// listOutput represents the complete JSON or YAML output
type listOutput struct {
	Root       string      `json:"root" yaml:"root"`
	Files      []listEntry `json:"files" yaml:"files"`
	Statistics *stats      `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Generated  time.Time   `json:"generated" yaml:"generated"`
}

func (f *formatter) formatJSON(root string, result walker.Result) (string, error) {
	f.log.Debug("Formatting JSON output")

	output := f.buildListOutput(root, result)

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

func (f *formatter) buildListOutput(root string, result walker.Result) *listOutput {
	output := &listOutput{
		Root:      root,
		Files:     make([]listEntry, 0, len(result.Entries)),
		Generated: time.Now(),
	}

	for _, entry := range result.Entries {
		f.log.WithFields(logger.Fields{
			"path": entry.RelPath,
		}).Trace("Adding entry to output")

		output.Files = append(output.Files, listEntry{
			Path:    entry.RelPath,
			Size:    entry.Size,
			ModTime: entry.ModTime,
		})
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		output.Statistics = newStats(result.Stats)
	}

	return output
}
