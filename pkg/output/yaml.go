package output

import (
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/walker"
)

func (f *formatter) formatYAML(root string, result walker.Result) (string, error) {
	f.log.Debug("Formatting YAML output")

	// Reuse the JSON structure for YAML output
	output := f.buildListOutput(root, result)

	bytes, err := yaml.Marshal(output)
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
