package polar

import (
	"fmt"
	"math"
)

// minDelta replaces a zero angular span so ratios against it stay finite.
const minDelta = 0.0000001

const parallelEps = 1e-9

// Angle is a directed span between two Coords sharing one center.
type Angle struct {
	P0 Coords
	P1 Coords

	DeltaAngle float64 // P1.Angle - P0.Angle, never exactly 0
	DeltaR     int

	// Screen-space offset from P0 to P1.
	dx, dy float64

	// Line through both endpoints, relative to the center:
	// y = slope*x + intercept, or x = lineX when vertical.
	slope     float64
	intercept float64
	lineX     float64
	vertical  bool

	walk int
}

func (a *Angle) SetCenter(x, y int) {
	a.P0.SetCenter(x, y)
	a.P1.SetCenter(x, y)
}

// Center returns the shared reference point.
func (a *Angle) Center() (x, y int) {
	return a.P0.CenterX, a.P0.CenterY
}

// SetFromXY rebuilds both endpoints from absolute screen positions and
// resets the sample walk.
func (a *Angle) SetFromXY(x0, y0, x1, y1 int) {
	a.P0.SetFromXYCentered(x0, y0)
	a.P1.SetFromXYCentered(x1, y1)

	a.DeltaR = a.P1.R - a.P0.R
	a.DeltaAngle = a.P1.Angle - a.P0.Angle
	if a.DeltaAngle == 0 {
		a.DeltaAngle = minDelta
	}

	a.dx = float64(x1 - x0)
	a.dy = float64(y1 - y0)

	cx, cy := a.Center()
	rx0, ry0 := float64(x0-cx), float64(y0-cy)
	rx1, ry1 := float64(x1-cx), float64(y1-cy)

	if rx0 == rx1 {
		a.vertical = true
		a.lineX = rx0
		a.slope, a.intercept = 0, 0
	} else {
		a.vertical = false
		a.slope = (ry1 - ry0) / (rx1 - rx0)
		a.intercept = ry0 - a.slope*rx0
		a.lineX = 0
	}

	a.walk = 0
}

// LengthAt returns the distance from the center to where the ray at angle p
// crosses the line through both endpoints. A ray parallel to that line
// returns P0's radius.
func (a *Angle) LengthAt(p float64) int {
	// Unit direction of the ray, in the same quarter-turn convention as ToXY.
	diry, dirx := math.Sincos(p - quarterTurn)

	var t float64
	if a.vertical {
		if math.Abs(dirx) < parallelEps {
			return a.P0.R
		}
		t = a.lineX / dirx
	} else {
		den := diry - a.slope*dirx
		if math.Abs(den) < parallelEps {
			return a.P0.R
		}
		t = a.intercept / den
	}

	return int(math.Round(math.Abs(t)))
}

func (a *Angle) LengthAtDegrees(d float64) int {
	return a.LengthAt(ToRadians(d))
}

// AngleDiff is the signed offset of p from P0. No wrapping is applied.
func (a *Angle) AngleDiff(p float64) float64 {
	return p - a.P0.Angle
}

// AngleFromOffset maps an offset (scaled by scale) back onto this span.
func (a *Angle) AngleFromOffset(offset, scale float64) float64 {
	return a.P0.Angle + offset*scale
}

// NextSample walks the joining line from P0 in tenths of its length,
// returning the radius and center-relative position of the current point.
// Each Angle keeps its own position; SetFromXY and ResetWalk rewind it.
func (a *Angle) NextSample() (r, x, y int) {
	x0, y0 := a.P0.XY()
	f := float64(a.walk) / 10
	x = int(float64(x0) + a.dx*f)
	y = int(float64(y0) + a.dy*f)
	a.walk++

	_, r = FromXY(x, y)
	return r, x, y
}

func (a *Angle) ResetWalk() {
	a.walk = 0
}

func (a *Angle) String() string {
	return fmt.Sprintf("delta_p=%.4f delta_r=%d p0={%v} p1={%v}", a.DeltaAngle, a.DeltaR, a.P0, a.P1)
}
