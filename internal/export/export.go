// Package export renders recommendation lists for consumption outside the
// engine: an indented JSON document for site generators and other tooling,
// and a plain text rendering for the console.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gcbaptista/go-recommendation-engine/services"
)

// WriteJSON writes the recommendation lists as indented JSON.
func WriteJSON(w io.Writer, lists []services.RecommendationList) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(lists); err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}
	return nil
}

// WriteJSONFile writes the recommendation lists to a JSON file.
func WriteJSONFile(path string, lists []services.RecommendationList) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return WriteJSON(file, lists)
}

// WriteConsole writes a human-readable rendering of the recommendation
// lists.
func WriteConsole(w io.Writer, lists []services.RecommendationList) error {
	for _, list := range lists {
		if _, err := fmt.Fprintf(w, "%s\n", list.SourceTitle); err != nil {
			return err
		}
		if len(list.Recommendations) == 0 {
			if _, err := fmt.Fprintf(w, "  (no recommendations)\n"); err != nil {
				return err
			}
			continue
		}
		for i, rec := range list.Recommendations {
			if _, err := fmt.Fprintf(w, "  %d. %s (proximity %.4f, distance %.4f)\n", i+1, rec.TargetTitle, rec.TitleProximityScore, rec.VectorDistance); err != nil {
				return err
			}
		}
	}
	return nil
}
