// Package codec encodes and decodes ledger records for import and export.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/billsplit/internal/models"
)

// Format is a serialization format for ledger records.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return YAML
	}
	return JSON
}

// Encode writes the ledger record to w.
func Encode(w io.Writer, ledger models.Ledger, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ledger); err != nil {
			return fmt.Errorf("failed to encode ledger as json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ledger); err != nil {
			return fmt.Errorf("failed to encode ledger as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode reads one ledger record from r. The record is not validated;
// ledger.FromRecord does that.
func Decode(r io.Reader, format Format) (models.Ledger, error) {
	var ledger models.Ledger
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&ledger); err != nil {
			return models.Ledger{}, fmt.Errorf("failed to decode json ledger: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&ledger); err != nil {
			return models.Ledger{}, fmt.Errorf("failed to decode yaml ledger: %w", err)
		}
	default:
		return models.Ledger{}, fmt.Errorf("unsupported format %q", format)
	}
	return ledger, nil
}
