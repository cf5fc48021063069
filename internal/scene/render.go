package scene

import (
	"errors"
	"fmt"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/polar"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/texture"
)

// ErrNotPrepared is returned by Render before a successful Prepare.
var ErrNotPrepared = errors.New("scene: Render before Prepare")

// Render clears fb and draws frame into it. fb may be an integer multiple
// of the scene size; x and y are then scaled up and z is left alone.
func (s *Scene) Render(fb *raster.FrameBuffer, frame int) error {
	if !s.prepared {
		return ErrNotPrepared
	}
	if fb.Mode != s.mode {
		return fmt.Errorf("scene: framebuffer is %s, scene prepared for %s", fb.Mode, s.mode)
	}
	scale := 1
	if s.Width > 0 && fb.Width > s.Width {
		scale = fb.Width / s.Width
	}

	fb.AlphaBlending = s.AlphaBlending && fb.Mode == raster.ARGB
	fb.Clear()
	s.drawBackground(fb)

	for i := range s.Objects {
		s.drawObject(fb, &s.Objects[i], frame, scale)
	}
	return nil
}

func (s *Scene) drawBackground(fb *raster.FrameBuffer) {
	bg := s.Background
	if bg == nil {
		return
	}
	if bg.Color.Set {
		fb.DrawRect(0, 0, fb.Width-1, fb.Height-1, s.bgColor)
	}
	if pic := s.pictures[bg.Picture]; bg.Picture != "" && pic != nil {
		if bg.HighQuality {
			fb.DrawPictureHighQuality(pic, 0, 0, fb.Width, fb.Height)
		} else {
			fb.DrawPictureScaled(pic, 0, 0, fb.Width, fb.Height)
		}
	}
}

// placement is an object's animated offset for one frame.
type placement struct {
	x, y, z int
}

func (o *Object) placeAt(frame, scale int) placement {
	return placement{
		x: (o.Position[0] + o.Velocity[0]*frame) * scale,
		y: (o.Position[1] + o.Velocity[1]*frame) * scale,
		z: o.Position[2] + o.Velocity[2]*frame,
	}
}

func (o *Object) rotationAt(frame int) mathutil.Rotation {
	base := mathutil.LoadRotation(o.Rotation)
	return base.Add(mathutil.LoadRotation(o.Spin).Scale(float32(frame)))
}

func (o *Object) triangle(scale int) mathutil.Triangle {
	t := mathutil.LoadTriangle(o.Vertices)
	for i := range t {
		t[i].X *= scale
		t[i].Y *= scale
	}
	return t
}

func (s *Scene) drawObject(fb *raster.FrameBuffer, o *Object, frame, scale int) {
	at := o.placeAt(frame, scale)

	switch o.Kind {
	case KindTriangle:
		t := o.triangle(scale)
		rot := o.rotationAt(frame)
		switch {
		case o.Texture != "":
			tex := s.texture(o.Texture)
			if tex == nil {
				return
			}
			fb.DrawTriangleTextured(t, rot, at.x, at.y, at.z, tex)
		case len(o.Colors) > 0:
			fb.DrawTriangleGradient(t, rot, at.x, at.y, at.z, o.colors)
		default:
			fb.DrawTriangle(t, rot, at.x, at.y, at.z, o.color)
		}

	case KindTriangle2D:
		fb.DrawTriangle2D(o.triangle(scale), at.x, at.y, o.color)

	case KindLine:
		x0, y0, z0 := o.From[0]*scale+at.x, o.From[1]*scale+at.y, o.From[2]+at.z
		x1, y1, z1 := o.To[0]*scale+at.x, o.To[1]*scale+at.y, o.To[2]+at.z
		switch {
		case len(o.Colors) > 0:
			fb.DrawLineGradient(x0, y0, z0, x1, y1, z1, o.colors[0], o.colors[1])
		case o.Depth:
			fb.DrawLineZ(x0, y0, z0, x1, y1, z1, o.color)
		default:
			fb.DrawLine(x0, y0, x1, y1, o.color)
		}

	case KindRect:
		// Corners are inclusive, so a scaled rect covers whole source pixels.
		fx0, fx1 := order(o.From[0], o.To[0])
		fy0, fy1 := order(o.From[1], o.To[1])
		x0, y0 := fx0*scale+at.x, fy0*scale+at.y
		x1, y1 := (fx1+1)*scale-1+at.x, (fy1+1)*scale-1+at.y
		if o.Depth {
			fb.DrawRectZ(x0, y0, x1, y1, o.color, at.z)
		} else {
			fb.DrawRect(x0, y0, x1, y1, o.color)
		}

	case KindPicture:
		s.drawPicture(fb, o, at, scale)

	case KindPolar:
		var c polar.Coords
		c.SetCenter(at.x, at.y)
		c.SetRadius(o.Radius * scale)
		c.SetAngleDegrees(o.Angle + o.AngleSpin*float64(frame))
		if o.Pixel {
			fb.DrawPolarPixel(c, o.color)
		} else {
			fb.DrawPolarLine(c, o.color)
		}
	}
}

func (s *Scene) drawPicture(fb *raster.FrameBuffer, o *Object, at placement, scale int) {
	pic := s.pictures[o.Picture]
	if pic == nil {
		return
	}
	w, h := o.Size[0]*scale, o.Size[1]*scale
	if w <= 0 || h <= 0 {
		if scale == 1 {
			if o.Depth {
				fb.DrawPictureZ(pic, at.x, at.y, at.z)
			} else {
				fb.DrawPicture(pic, at.x, at.y)
			}
			return
		}
		w, h = pic.Width*scale, pic.Height*scale
	}

	switch {
	case o.HighQuality && o.Depth:
		fb.DrawPictureHighQualityZ(pic, at.x, at.y, w, h, at.z)
	case o.HighQuality:
		fb.DrawPictureHighQuality(pic, at.x, at.y, w, h)
	case o.Depth:
		fb.DrawPictureScaledZ(pic, at.x, at.y, w, h, at.z)
	default:
		fb.DrawPictureScaled(pic, at.x, at.y, w, h)
	}
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// texture builds a fresh Texture per draw: sorting and the image span
// mutate it, and the shared picture stays read-only.
func (s *Scene) texture(name string) *texture.Texture {
	pic := s.pictures[textureKey(name)]
	if pic == nil {
		return nil
	}
	def := s.Textures[name]
	tex := texture.New(pic)
	uv := def.UV
	tex.SetCoords(uv[0], uv[1], uv[2], uv[3], uv[4], uv[5])
	return tex
}
