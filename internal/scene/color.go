package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"scanline-renderer/internal/raster"
)

// Color is a palette index (JSON number) or an explicit color (JSON string
// "#RRGGBB" or "#AARRGGBB"). "#RRGGBB" is opaque.
type Color struct {
	Index   int
	Value   uint32
	IsIndex bool
	Set     bool
}

// Hex returns an explicit ARGB color.
func Hex(argb uint32) Color { return Color{Value: argb, Set: true} }

// IndexColor returns a palette-index color.
func IndexColor(i int) Color { return Color{Index: i, IsIndex: true, Set: true} }

func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Color{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseHex(s)
		if err != nil {
			return err
		}
		*c = Hex(v)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("scene: color %s: want palette index or \"#RRGGBB\"", data)
	}
	*c = IndexColor(i)
	return nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	switch {
	case !c.Set:
		return []byte("null"), nil
	case c.IsIndex:
		return json.Marshal(c.Index)
	}
	return json.Marshal(fmt.Sprintf("#%08x", c.Value))
}

// ParseHex parses "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseHex(s string) (uint32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("scene: bad color %q", s)
	}
	switch len(h) {
	case 6:
		return 0xff000000 | uint32(v), nil
	case 8:
		return uint32(v), nil
	}
	return 0, fmt.Errorf("scene: bad color %q: want 6 or 8 hex digits", s)
}

// resolve converts c to the value a framebuffer of the given mode stores.
func resolve(c Color, palette []uint32, mode raster.Mode) (uint32, error) {
	if c.IsIndex {
		if c.Index < 0 || c.Index >= len(palette) {
			return 0, fmt.Errorf("palette index %d out of range (%d colors)", c.Index, len(palette))
		}
		if mode == raster.Indexed {
			return uint32(c.Index), nil
		}
		return 0xff000000 | palette[c.Index], nil
	}
	if mode == raster.ARGB {
		return c.Value, nil
	}
	rgb := c.Value & 0xffffff
	for i, p := range palette {
		if p&0xffffff == rgb {
			return uint32(i), nil
		}
	}
	return 0, fmt.Errorf("color #%06x is not in the palette", rgb)
}
