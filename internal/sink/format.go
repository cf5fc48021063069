package sink

import (
	"fmt"
	"strings"
)

// Format selects the encoder a Sink writes with.
type Format int

const (
	// GIF writes an animated GIF from palette-indexed frames.
	GIF Format = iota
	// GIFDither writes an animated GIF from ARGB frames, dithered onto the
	// palette (or the web-safe palette when none is set).
	GIFDither
	// BMP8 writes 8-bit palettized BMP stills.
	BMP8
	// BMP24 writes 24-bit BMP stills.
	BMP24
	// WebP writes lossless WebP; several frames become an animation.
	WebP
)

var formatNames = [...]string{
	GIF:       "gif",
	GIFDither: "gif-dither",
	BMP8:      "bmp8",
	BMP24:     "bmp24",
	WebP:      "webp",
}

// ParseFormat maps a name such as "gif" or "bmp24" to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("sink: unknown format %q", name)
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// BytesPerPixel is the frame layout AppendFrame expects: 1 for palette
// indices, 4 for little-endian ARGB.
func (f Format) BytesPerPixel() int {
	switch f {
	case GIF, BMP8:
		return 1
	}
	return 4
}

// Indexed reports whether frames carry palette indices.
func (f Format) Indexed() bool {
	return f.BytesPerPixel() == 1
}

// Ext returns the usual file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case GIF, GIFDither:
		return ".gif"
	case BMP8, BMP24:
		return ".bmp"
	}
	return ".webp"
}
