package raster

import (
	"math"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/texture"
)

// SortVertexes orders t so that y0 <= y1 <= y2 using three compare-and-swap
// steps. swap, when non-nil, is called with every exchange so that per-vertex
// payloads stay in lockstep.
func SortVertexes(t *mathutil.Triangle, swap func(i, j int)) {
	step := func(i, j int) {
		if t[i].Y > t[j].Y {
			t[i], t[j] = t[j], t[i]
			if swap != nil {
				swap(i, j)
			}
		}
	}
	step(0, 1)
	step(1, 2)
	step(0, 1)
}

// spanFunc draws one scanline of a triangle between two edge states.
type spanFunc func(y int, x0 int, v0 attrs, x1 int, v1 attrs)

// edge is the running state of one triangle side, advanced once per row.
type edge struct {
	x, dx float64
	v, d  attrs
}

func newEdge(a, b point, n int) edge {
	e := edge{x: float64(a.x), v: a.v}
	dy := b.y - a.y
	if dy == 0 {
		return e
	}
	e.dx = float64(b.x-a.x) / float64(dy)
	for k := 0; k < n; k++ {
		e.d[k] = (b.v[k] - a.v[k]) / float64(dy)
	}
	return e
}

func (e *edge) step(n int) {
	e.x += e.dx
	for k := 0; k < n; k++ {
		e.v[k] += e.d[k]
	}
}

// fillTriangle sweeps a y-sorted triangle one row at a time. The long edge
// v0→v2 runs over the whole height; the short side switches from v0→v1 to
// v1→v2 at y1. Rows run from the start row inclusive to the end row exclusive.
func fillTriangle(v [3]point, n int, span spanFunc) {
	long := newEdge(v[0], v[2], n)

	if v[0].y == v[1].y {
		short := newEdge(v[1], v[2], n)
		sweep(&long, &short, v[0].y, v[2].y, n, span)
		return
	}

	short := newEdge(v[0], v[1], n)
	sweep(&long, &short, v[0].y, v[1].y, n, span)

	short = newEdge(v[1], v[2], n)
	sweep(&long, &short, v[1].y, v[2].y, n, span)
}

func sweep(a, b *edge, y0, y1, n int, span spanFunc) {
	for y := y0; y < y1; y++ {
		va, vb := a.v, b.v
		va[attrZ] = math.Trunc(va[attrZ])
		vb[attrZ] = math.Trunc(vb[attrZ])
		span(y, int(a.x), va, int(b.x), vb)
		a.step(n)
		b.step(n)
	}
}

func points(t mathutil.Triangle) [3]point {
	var p [3]point
	for i, v := range t {
		p[i] = point{x: v.X, y: v.Y, v: attrs{attrZ: float64(v.Z)}}
	}
	return p
}

// DrawTriangle2D fills t shifted by (x, y) with a flat color. No rotation,
// projection or depth test is applied.
func (fb *FrameBuffer) DrawTriangle2D(t mathutil.Triangle, x, y int, color uint32) {
	t = t.Translate(x, y, 0)
	SortVertexes(&t, nil)
	fillTriangle(points(t), 0, func(row, x0 int, _ attrs, x1 int, _ attrs) {
		fb.DrawLine(x0, row, x1, row, color)
	})
}

// DrawTriangle rotates t, moves it by (x, y, z), projects it and fills it
// with a flat color under the depth test.
func (fb *FrameBuffer) DrawTriangle(t mathutil.Triangle, rot mathutil.Rotation, x, y, z int, color uint32) {
	t = t.Rotate(rot).Translate(x, y, z).Project()
	SortVertexes(&t, nil)
	plot := fb.plotFlat(color)
	fillTriangle(points(t), 1, func(row, x0 int, v0 attrs, x1 int, v1 attrs) {
		scanLine(point{x0, row, v0}, point{x1, row, v1}, 1, plot)
	})
}

// DrawTriangleGradient is DrawTriangle with one ARGB color per vertex,
// interpolated across the surface.
func (fb *FrameBuffer) DrawTriangleGradient(t mathutil.Triangle, rot mathutil.Rotation, x, y, z int, colors [3]uint32) {
	t = t.Rotate(rot).Translate(x, y, z).Project()
	SortVertexes(&t, func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})

	p := points(t)
	for i := range p {
		p[i].v = colorAttrs(p[i].v[attrZ], colors[i])
	}
	fillTriangle(p, numAttrs, func(row, x0 int, v0 attrs, x1 int, v1 attrs) {
		scanLine(point{x0, row, v0}, point{x1, row, v1}, numAttrs, fb.plotGradient)
	})
}

// DrawTriangleTextured is DrawTriangle with colors sampled from tex. The
// texture's screen span is rebuilt from the projected, sorted corners
// before filling.
func (fb *FrameBuffer) DrawTriangleTextured(t mathutil.Triangle, rot mathutil.Rotation, x, y, z int, tex *texture.Texture) {
	t = t.Rotate(rot).Translate(x, y, z).Project()
	tex.ResetSort()
	SortVertexes(&t, tex.Exchange)
	tex.SetImageAngle(t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y)

	cx, cy := tex.ImageCenter()
	plot := fb.plotTextured(tex, cx, cy)
	fillTriangle(points(t), 1, func(row, x0 int, v0 attrs, x1 int, v1 attrs) {
		scanLine(point{x0, row, v0}, point{x1, row, v1}, 1, plot)
	})
}
