// Package loader reads target lists and produces the derived list files
// (CSV conversion, range chunks) that feed a scrape run.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// Load reads a JSON array of target identifiers from path and truncates it
// to at most limit entries, preserving order. A limit <= 0 disables the cap.
//
// Any failure is reported as an INVALID_INPUT ScrapeError so the caller can
// abort the run before any extraction begins.
func Load(path string, limit int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "cannot read input file", err)
	}

	targets, err := parseTargets(data)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil
}

func parseTargets(data []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "input is not valid JSON", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("input must be a JSON array of URLs, got %s", jsonKind(raw)), nil)
	}

	targets := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
				fmt.Sprintf("element %d is %s, want string", i, jsonKind(item)), nil)
		}
		targets[i] = s
	}
	return targets, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// WriteJSON writes targets as an indented JSON array.
func WriteJSON(path string, targets []string) error {
	if targets == nil {
		targets = []string{}
	}
	data, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return fmt.Errorf("loader: marshal targets: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("loader: write %s: %w", path, err)
	}
	return nil
}
