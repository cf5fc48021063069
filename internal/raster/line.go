package raster

import (
	"math"

	"scanline-renderer/internal/picture"
	"scanline-renderer/internal/polar"
	"scanline-renderer/internal/texture"
)

// Interpolated attribute slots. A span carries only the first n of them.
const (
	attrZ = iota
	attrA
	attrR
	attrG
	attrB
	numAttrs
)

// attrs holds the per-vertex quantities a line or triangle interpolates.
type attrs [numAttrs]float64

// point is a line endpoint: integer screen position plus attributes.
type point struct {
	x, y int
	v    attrs
}

type plotFunc func(x, y int, v *attrs)

// scanLine walks from p0 to p1 calling plot once per pixel. Axis-aligned
// runs step directly; otherwise the longer axis is stepped and the other
// coordinate is rounded. Every attribute advances by (end-start)/steps.
func scanLine(p0, p1 point, n int, plot plotFunc) {
	switch {
	case p0.y == p1.y:
		if p1.x < p0.x {
			p0, p1 = p1, p0
		}
		y := p0.y
		run(p0, p1, p1.x-p0.x, n, func(i int, v *attrs) {
			plot(p0.x+i, y, v)
		})

	case p0.x == p1.x:
		if p1.y < p0.y {
			p0, p1 = p1, p0
		}
		x := p0.x
		run(p0, p1, p1.y-p0.y, n, func(i int, v *attrs) {
			plot(x, p0.y+i, v)
		})

	case iabs(p1.x-p0.x) < iabs(p1.y-p0.y):
		if p0.y > p1.y {
			p0, p1 = p1, p0
		}
		steps := p1.y - p0.y
		dxdy := float64(p1.x-p0.x) / float64(steps)
		x := float64(p0.x)
		run(p0, p1, steps, n, func(i int, v *attrs) {
			plot(int(math.Round(x)), p0.y+i, v)
			x += dxdy
		})

	default:
		if p0.x > p1.x {
			p0, p1 = p1, p0
		}
		steps := p1.x - p0.x
		dydx := float64(p1.y-p0.y) / float64(steps)
		y := float64(p0.y)
		run(p0, p1, steps, n, func(i int, v *attrs) {
			plot(p0.x+i, int(math.Round(y)), v)
			y += dydx
		})
	}
}

// run performs steps+1 iterations, advancing the first n attributes
// linearly from p0 to p1. A zero-length run uses a zero delta.
func run(p0, p1 point, steps, n int, step func(i int, v *attrs)) {
	v := p0.v
	var d attrs
	if steps != 0 {
		for k := 0; k < n; k++ {
			d[k] = (p1.v[k] - p0.v[k]) / float64(steps)
		}
	}
	for i := 0; i <= steps; i++ {
		step(i, &v)
		for k := 0; k < n; k++ {
			v[k] += d[k]
		}
	}
}

// DrawLine draws a flat-colored line without depth testing.
func (fb *FrameBuffer) DrawLine(x0, y0, x1, y1 int, color uint32) {
	scanLine(point{x: x0, y: y0}, point{x: x1, y: y1}, 0, func(x, y int, _ *attrs) {
		fb.DrawPixel(x, y, color)
	})
}

// DrawLineZ draws a flat-colored line, interpolating depth from z0 to z1.
func (fb *FrameBuffer) DrawLineZ(x0, y0, z0, x1, y1, z1 int, color uint32) {
	p0 := point{x: x0, y: y0, v: attrs{attrZ: float64(z0)}}
	p1 := point{x: x1, y: y1, v: attrs{attrZ: float64(z1)}}
	scanLine(p0, p1, 1, fb.plotFlat(color))
}

// DrawLineGradient draws a depth-tested line whose ARGB color moves from
// c0 to c1 channel by channel.
func (fb *FrameBuffer) DrawLineGradient(x0, y0, z0, x1, y1, z1 int, c0, c1 uint32) {
	p0 := point{x: x0, y: y0, v: colorAttrs(float64(z0), c0)}
	p1 := point{x: x1, y: y1, v: colorAttrs(float64(z1), c1)}
	scanLine(p0, p1, numAttrs, fb.plotGradient)
}

// DrawLineTextured draws a depth-tested line whose colors come from tex.
// Each pixel's offset from (cx, cy) is converted to polar form and used as
// the texture lookup.
func (fb *FrameBuffer) DrawLineTextured(x0, y0, z0, x1, y1, z1 int, tex *texture.Texture, cx, cy int) {
	p0 := point{x: x0, y: y0, v: attrs{attrZ: float64(z0)}}
	p1 := point{x: x1, y: y1, v: attrs{attrZ: float64(z1)}}
	scanLine(p0, p1, 1, fb.plotTextured(tex, cx, cy))
}

func (fb *FrameBuffer) plotFlat(color uint32) plotFunc {
	return func(x, y int, v *attrs) {
		fb.DrawPixelZ(x, y, color, int(v[attrZ]))
	}
}

func (fb *FrameBuffer) plotGradient(x, y int, v *attrs) {
	c := picture.ARGB(channel(v[attrA]), channel(v[attrR]), channel(v[attrG]), channel(v[attrB]))
	fb.DrawPixelZ(x, y, c, int(v[attrZ]))
}

func (fb *FrameBuffer) plotTextured(tex *texture.Texture, cx, cy int) plotFunc {
	return func(x, y int, v *attrs) {
		p, r := polar.FromXY(x-cx, y-cy)
		fb.DrawPixelZ(x, y, tex.GetPixel(p, r), int(v[attrZ]))
	}
}

func colorAttrs(z float64, c uint32) attrs {
	a, r, g, b := picture.SplitARGB(c)
	return attrs{attrZ: z, attrA: float64(a), attrR: float64(r), attrG: float64(g), attrB: float64(b)}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// DrawRect fills the box between two corners, inclusive, without depth.
func (fb *FrameBuffer) DrawRect(x0, y0, x1, y1 int, color uint32) {
	x0, x1 = order(x0, x1)
	y0, y1 = order(y0, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fb.DrawPixel(x, y, color)
		}
	}
}

// DrawRectZ fills the box between two corners at a constant depth.
func (fb *FrameBuffer) DrawRectZ(x0, y0, x1, y1 int, color uint32, z int) {
	x0, x1 = order(x0, x1)
	y0, y1 = order(y0, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fb.DrawPixelZ(x, y, color, z)
		}
	}
}

// DrawPolarLine draws from the coordinates' center to the point they describe.
func (fb *FrameBuffer) DrawPolarLine(c polar.Coords, color uint32) {
	x1, y1 := c.XYCentered()
	fb.DrawLine(c.CenterX, c.CenterY, x1, y1, color)
}

// DrawPolarPixel plots the point the coordinates describe.
func (fb *FrameBuffer) DrawPolarPixel(c polar.Coords, color uint32) {
	x, y := c.XYCentered()
	fb.DrawPixel(x, y, color)
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
