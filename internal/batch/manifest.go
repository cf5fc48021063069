package batch

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest describes one finished render.
type Manifest struct {
	Scene       string          `json:"scene"`
	Output      string          `json:"output"`
	Format      string          `json:"format"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Supersample int             `json:"supersample"`
	Elapsed     float64         `json:"elapsed_ms"`
	Frames      []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame    int     `json:"frame"`
	RenderMS float64 `json:"render_ms"`
	Error    string  `json:"error,omitempty"`
}

// WriteManifest fills m.Frames from results and writes m as indented JSON.
func WriteManifest(path string, m Manifest, results []Result) error {
	m.Frames = make([]ManifestEntry, len(results))
	for i, r := range results {
		m.Frames[i] = ManifestEntry{
			Frame:    r.Frame,
			RenderMS: ms(r.Duration),
			Error:    r.Error,
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
