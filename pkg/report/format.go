package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pesc/wordfence-cli/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds formatter configuration
type Config struct {
	Format Format
}

// Formatter renders collected scan results into a final report document.
type Formatter interface {
	Format(results []FileResult, summary Summary) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a formatter for the configured format.
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{config: config, log: log}
}

// document is the serialized shape of a full report.
type document struct {
	Results   []FileResult `json:"results" yaml:"results"`
	Summary   Summary      `json:"summary" yaml:"summary"`
	Generated time.Time    `json:"generated" yaml:"generated"`
}

func (f *formatter) Format(results []FileResult, summary Summary) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":  f.config.Format,
		"results": len(results),
	}).Debug("Formatting scan report")

	switch f.config.Format {
	case FormatJSON:
		return f.formatJSON(results, summary)
	case FormatYAML:
		return f.formatYAML(results, summary)
	case FormatText, "":
		return f.formatText(results, summary), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", f.config.Format)
	}
}

func (f *formatter) formatJSON(results []FileResult, summary Summary) (string, error) {
	doc := document{Results: results, Summary: summary, Generated: time.Now()}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON report")
		return "", err
	}
	return string(data), nil
}

func (f *formatter) formatYAML(results []FileResult, summary Summary) (string, error) {
	doc := document{Results: results, Summary: summary, Generated: time.Now()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML report")
		return "", err
	}
	return string(data), nil
}

func (f *formatter) formatText(results []FileResult, summary Summary) string {
	var b strings.Builder

	for _, result := range results {
		if result.Error != "" {
			fmt.Fprintf(&b, "error  %s: %s\n", result.Path, result.Error)
			continue
		}
		for _, m := range result.Matches {
			name := m.SignatureName
			if name == "" {
				name = fmt.Sprintf("signature %d", m.SignatureID)
			}
			fmt.Fprintf(&b, "match  %s: %s (id %d, offset %d)\n", result.Path, name, m.SignatureID, m.Offset)
		}
	}

	fmt.Fprintf(&b, "\nfiles: %d  bytes: %d  matched: %d  failed: %d  elapsed: %.2fs\n",
		summary.TotalFiles, summary.TotalBytes, summary.MatchedFiles,
		summary.FailedFiles, summary.Elapsed.Seconds())

	return b.String()
}
