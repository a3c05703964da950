package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or yaml)", s)
	}
}

// JSON marshals a report with indentation.
func JSON(report interface{}) (string, error) {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}
	return string(data), nil
}

// YAML marshals a report.
func YAML(report interface{}) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("error marshalling yaml: %w", err)
	}
	return string(data), nil
}

// Render renders a report in the requested format.
func Render(report interface{ Text() string }, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return JSON(report)
	case FormatYAML:
		return YAML(report)
	default:
		return report.Text(), nil
	}
}
