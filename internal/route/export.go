package route

import (
	"encoding/json"
	"fmt"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/pkg/webtool"
)

// Export writes the solved directions to path as an indented JSON document.
func Export(fs filesystem.Provider, result *webtool.SolveResult, path string) error {
	doc := struct {
		Directions []webtool.Direction `json:"directions"`
		TotalKm    float64             `json:"totalKilometers"`
		TotalMin   float64             `json:"totalMinutes"`
	}{
		Directions: result.Directions,
	}
	for _, d := range result.Directions {
		doc.TotalKm += d.Meters / 1000
		doc.TotalMin += d.Minutes
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write directions: %w", err)
	}
	return nil
}
