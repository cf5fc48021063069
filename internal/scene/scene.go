// Package scene describes an animated scene as JSON and renders its frames.
//
// A scene lists draw calls (triangles, lines, rects, pictures and polar
// spokes) with optional per-frame motion. Load parses the file; Prepare
// resolves colors against the target framebuffer mode and loads every
// referenced picture once; Render then draws any frame into a FrameBuffer.
// After Prepare a Scene is read-only and may be rendered from several
// goroutines, each with its own FrameBuffer.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"scanline-renderer/internal/logging"
	"scanline-renderer/internal/picture"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/texture"
)

// Object kinds.
const (
	KindTriangle   = "triangle"
	KindTriangle2D = "triangle2d"
	KindLine       = "line"
	KindRect       = "rect"
	KindPicture    = "picture"
	KindPolar      = "polar"
)

// Scene is the parsed scene file.
type Scene struct {
	Width         int                   `json:"width"`
	Height        int                   `json:"height"`
	Frames        int                   `json:"frames"`
	Delay         int                   `json:"delay"`
	AlphaBlending bool                  `json:"alpha_blending"`
	Palette       []string              `json:"palette"`
	Background    *Background           `json:"background"`
	Textures      map[string]TextureDef `json:"textures"`
	Objects       []Object              `json:"objects"`

	palette  []uint32
	bgColor  uint32
	pictures map[string]*picture.Picture
	mode     raster.Mode
	prepared bool
}

// Background is drawn after every clear, before any object.
type Background struct {
	Color       Color  `json:"color"`
	Picture     string `json:"picture"`
	HighQuality bool   `json:"high_quality"`
}

// TextureDef names a raster and the UV triangle mapped onto every triangle
// that uses it.
type TextureDef struct {
	File string     `json:"file"`
	UV   [6]float64 `json:"uv"`
	// Transparent makes pixels of this RGB fully transparent.
	Transparent Color `json:"transparent"`
	// Alpha, when set, replaces the alpha of every other pixel.
	Alpha *uint8 `json:"alpha"`
}

// Object is one draw call. Which fields apply depends on Kind.
type Object struct {
	Kind string `json:"kind"`

	// Triangles.
	Vertices [9]int     `json:"vertices"`
	Rotation [3]float32 `json:"rotation"`
	Spin     [3]float32 `json:"spin"`
	Colors   []Color    `json:"colors"`
	Texture  string     `json:"texture"`

	// Shared placement and motion.
	Position [3]int `json:"position"`
	Velocity [3]int `json:"velocity"`
	Color    Color  `json:"color"`
	Depth    bool   `json:"depth"`

	// Lines and rects.
	From [3]int `json:"from"`
	To   [3]int `json:"to"`

	// Pictures.
	Picture     string `json:"picture"`
	Size        [2]int `json:"size"`
	HighQuality bool   `json:"high_quality"`

	// Polar spokes: Angle and AngleSpin in degrees.
	Radius    int     `json:"radius"`
	Angle     float64 `json:"angle"`
	AngleSpin float64 `json:"angle_spin"`
	Pixel     bool    `json:"pixel"`

	color  uint32
	colors [3]uint32
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene from JSON.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for i, hex := range s.Palette {
		v, err := ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
		s.palette = append(s.palette, v&0xffffff)
	}
	if len(s.palette) > raster.MaxColors {
		return nil, fmt.Errorf("palette has %d colors, max %d", len(s.palette), raster.MaxColors)
	}
	return &s, nil
}

// PaletteColors returns the palette as 0xRRGGBB values.
func (s *Scene) PaletteColors() []uint32 {
	return s.palette
}

// Prepare resolves every color for mode and loads every referenced
// picture through res. Pictures that fail to resolve are reported as
// errors; nothing is drawn with a missing texture.
func (s *Scene) Prepare(mode raster.Mode, res texture.Resolver) error {
	s.mode = mode
	s.pictures = make(map[string]*picture.Picture)
	var errs []error

	if bg := s.Background; bg != nil {
		if bg.Color.Set {
			c, err := resolve(bg.Color, s.palette, mode)
			if err != nil {
				errs = append(errs, fmt.Errorf("background: %w", err))
			}
			s.bgColor = c
		}
		if bg.Picture != "" {
			if mode != raster.ARGB {
				errs = append(errs, errors.New("background: a picture needs an ARGB output format"))
			} else {
				errs = append(errs, s.loadPicture(bg.Picture, bg.Picture, nil, res))
			}
		}
	}

	for name, def := range s.Textures {
		file := def.File
		if file == "" {
			file = name
		}
		errs = append(errs, s.loadPicture(textureKey(name), file, &def, res))
	}

	for i := range s.Objects {
		if err := s.prepareObject(&s.Objects[i], res); err != nil {
			errs = append(errs, fmt.Errorf("objects[%d] (%s): %w", i, s.Objects[i].Kind, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.prepared = true
	return nil
}

func textureKey(name string) string { return "texture:" + name }

// loadPicture resolves file and stores it under key. Texture edits are
// applied to a private copy so shared cache entries stay untouched.
func (s *Scene) loadPicture(key, file string, def *TextureDef, res texture.Resolver) error {
	if _, ok := s.pictures[key]; ok {
		return nil
	}
	if res == nil {
		return fmt.Errorf("picture %q: no texture source configured", file)
	}
	pic := res.Resolve(file)
	if pic == nil {
		return fmt.Errorf("picture %q not found", file)
	}

	if def != nil && (def.Transparent.Set || def.Alpha != nil) {
		pic = picture.FromPixels(pic.Width, pic.Height, pic.Pix)
		if def.Transparent.Set {
			pic.SetColorTransparent(def.Transparent.Value)
		}
		if def.Alpha != nil {
			if def.Transparent.Set {
				pic.UpdateAlphaExcept(*def.Alpha, def.Transparent.Value)
			} else {
				pic.UpdateAlpha(*def.Alpha)
			}
		}
	}

	s.pictures[key] = pic
	logging.Logger().Debug("scene picture ready", "name", key, "width", pic.Width, "height", pic.Height)
	return nil
}

func (s *Scene) prepareObject(o *Object, res texture.Resolver) error {
	argbOnly := func(what string) error {
		if s.mode != raster.ARGB {
			return fmt.Errorf("%s needs an ARGB output format", what)
		}
		return nil
	}

	switch o.Kind {
	case KindTriangle, KindTriangle2D:
		switch {
		case o.Texture != "":
			if o.Kind == KindTriangle2D {
				return errors.New("textures need a 3D triangle")
			}
			if err := argbOnly("a textured triangle"); err != nil {
				return err
			}
			if _, ok := s.Textures[o.Texture]; !ok {
				return fmt.Errorf("unknown texture %q", o.Texture)
			}
			return nil
		case len(o.Colors) > 0:
			if o.Kind == KindTriangle2D {
				return errors.New("vertex colors need a 3D triangle")
			}
			if len(o.Colors) != 3 {
				return fmt.Errorf("want 3 vertex colors, got %d", len(o.Colors))
			}
			if err := argbOnly("a gradient triangle"); err != nil {
				return err
			}
			return s.resolveColors(o, o.Colors)
		}
		return s.resolveColor(o)

	case KindLine:
		if len(o.Colors) > 0 {
			if len(o.Colors) != 2 {
				return fmt.Errorf("want 2 end colors, got %d", len(o.Colors))
			}
			if err := argbOnly("a gradient line"); err != nil {
				return err
			}
			return s.resolveColors(o, o.Colors)
		}
		return s.resolveColor(o)

	case KindRect, KindPolar:
		return s.resolveColor(o)

	case KindPicture:
		if o.Picture == "" {
			return errors.New("missing picture name")
		}
		if err := argbOnly("a picture"); err != nil {
			return err
		}
		return s.loadPicture(o.Picture, o.Picture, nil, res)
	}
	return fmt.Errorf("unknown kind %q", o.Kind)
}

func (s *Scene) resolveColor(o *Object) error {
	if !o.Color.Set {
		return errors.New("missing color")
	}
	c, err := resolve(o.Color, s.palette, s.mode)
	if err != nil {
		return err
	}
	o.color = c
	return nil
}

func (s *Scene) resolveColors(o *Object, colors []Color) error {
	for i, c := range colors {
		v, err := resolve(c, s.palette, s.mode)
		if err != nil {
			return fmt.Errorf("colors[%d]: %w", i, err)
		}
		o.colors[i] = v
	}
	return nil
}
