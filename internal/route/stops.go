package route

import (
	"encoding/json"
	"fmt"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/pkg/webtool"
)

// LoadStops reads the ordered stop locations from a JSON file. The file is
// either a bare array of stops or an object with a "stops" array.
func LoadStops(fs filesystem.Provider, path string) ([]webtool.Stop, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stops file: %w", err)
	}

	var stops []webtool.Stop
	if err := json.Unmarshal(data, &stops); err == nil {
		return validateStops(stops, path)
	}

	var wrapper struct {
		Stops []webtool.Stop `json:"stops"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("invalid stops file %s: %w", path, err)
	}
	return validateStops(wrapper.Stops, path)
}

func validateStops(stops []webtool.Stop, path string) ([]webtool.Stop, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("stops file %s must contain at least two stops, got %d: %w",
			path, len(stops), webtool.ErrInvalidConfig)
	}
	return stops, nil
}
