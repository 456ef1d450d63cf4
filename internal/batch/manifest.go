package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index    int     `json:"index"`
	Rotation float64 `json:"rotation_y"`
	Mode     string  `json:"mode"`
	Image    string  `json:"image"`
	Drawn    int     `json:"triangles_drawn"`
}

// WriteManifest writes the successfully rendered frames as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Index:    r.Index,
			Rotation: r.Rotation,
			Mode:     r.Mode,
			Image:    r.Image,
			Drawn:    r.Drawn,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
