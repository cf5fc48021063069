package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"scanline-renderer/internal/sink"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir  string `json:"base_dir"`
	Scene    string `json:"scene"`
	AssetDir string `json:"asset_dir"`
	Output   string `json:"output"`
	Manifest string `json:"manifest"`

	// Render settings
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Frames      int    `json:"frames"`
	Delay       int    `json:"delay"`
	Loop        int    `json:"loop"`
	Supersample int    `json:"supersample"`
	Workers     int    `json:"workers"`

	// GIF background and transparent palette entries.
	BackgroundIndex  int  `json:"background_index"`
	TransparentIndex *int `json:"transparent_index"`
}

// SinkOptions returns the encoder options the settings describe.
func (c *Config) SinkOptions() sink.Options {
	opts := sink.Options{
		Delay:           c.Delay,
		LoopCount:       c.Loop,
		BackgroundIndex: uint8(c.BackgroundIndex),
	}
	if c.TransparentIndex != nil {
		opts.Transparent = true
		opts.TransparentIndex = uint8(*c.TransparentIndex)
	}
	return opts
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting alone.
type Flags struct {
	Scene       string
	Output      string
	Format      string
	Size        string // "WxH"
	Frames      int
	Delay       int
	Supersample int
	Workers     int
}

// Resolve applies flags, resolves relative paths against BaseDir and fills
// in any remaining defaults. Size and frame count left at zero are taken
// from the scene later.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size != "" {
		w, h, err := ParseSize(flags.Size)
		if err != nil {
			return err
		}
		c.Width, c.Height = w, h
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Delay > 0 {
		c.Delay = flags.Delay
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.BaseDir == "" && c.Scene != "" {
		c.BaseDir = filepath.Dir(c.Scene)
	}
	if c.BaseDir != "" {
		c.AssetDir = under(c.BaseDir, c.AssetDir)
	}

	// Defaults for render settings
	if c.Format == "" {
		c.Format = formatFromExt(c.Output)
	}
	format, err := sink.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Output == "" {
		c.Output = "out" + format.Ext()
	}
	if c.Manifest == "" {
		if strings.Contains(c.Output, "%") {
			c.Manifest = filepath.Join(filepath.Dir(c.Output), "manifest.json")
		} else {
			c.Manifest = strings.TrimSuffix(c.Output, filepath.Ext(c.Output)) + ".manifest.json"
		}
	}
	if c.BackgroundIndex < 0 || c.BackgroundIndex > 255 {
		return fmt.Errorf("config: background_index %d out of range 0..255", c.BackgroundIndex)
	}
	if c.TransparentIndex != nil && (*c.TransparentIndex < 0 || *c.TransparentIndex > 255) {
		return fmt.Errorf("config: transparent_index %d out of range 0..255", *c.TransparentIndex)
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// ParseSize parses "WxH".
func ParseSize(s string) (w, h int, err error) {
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("config: bad size %q, want WxH", s)
	}
	return w, h, nil
}

// under resolves p against base; an empty p means base itself.
func under(base, p string) string {
	switch {
	case p == "":
		return base
	case filepath.IsAbs(p):
		return p
	}
	return filepath.Join(base, p)
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp24"
	case ".webp":
		return "webp"
	}
	return "gif"
}
