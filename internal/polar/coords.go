// Package polar implements the renderer's polar coordinate system: angle 0
// points up the screen (-y) and angles grow clockwise, a quarter turn away
// from the arithmetic convention.
package polar

import (
	"fmt"
	"math"
)

const quarterTurn = math.Pi / 2

// Coords is an angle (radians) and integer radius around a screen-space center.
// The angle is never normalized on assignment.
type Coords struct {
	Angle   float64
	R       int
	CenterX int
	CenterY int
}

// FromXY converts a vector to (angle, radius). The radius is truncated.
func FromXY(x, y int) (p float64, r int) {
	r = int(math.Sqrt(float64(x*x + y*y)))
	p = math.Atan2(float64(y), float64(x)) + quarterTurn
	return p, r
}

// ToXY converts (angle, radius) to a vector, rounded to the nearest pixel.
func ToXY(p float64, r int) (x, y int) {
	s, c := math.Sincos(p - quarterTurn)
	x = int(math.Round(float64(r) * c))
	y = int(math.Round(float64(r) * s))
	return x, y
}

// SetCenter moves the reference point without touching angle or radius.
func (c *Coords) SetCenter(x, y int) {
	c.CenterX = x
	c.CenterY = y
}

func (c *Coords) SetRadius(r int) {
	c.R = r
}

func (c *Coords) SetAngleDegrees(d float64) {
	c.Angle = ToRadians(d)
}

// SetFromXY sets angle and radius from a vector relative to the center.
func (c *Coords) SetFromXY(x, y int) {
	c.Angle, c.R = FromXY(x, y)
}

// SetFromXYCentered sets angle and radius from an absolute screen position.
func (c *Coords) SetFromXYCentered(x, y int) {
	c.Angle, c.R = FromXY(x-c.CenterX, y-c.CenterY)
}

// FromXYCentered is SetFromXYCentered without mutating c.
func (c Coords) FromXYCentered(x, y int) (p float64, r int) {
	return FromXY(x-c.CenterX, y-c.CenterY)
}

// XY returns the vector relative to the center.
func (c Coords) XY() (x, y int) {
	return ToXY(c.Angle, c.R)
}

// XYCentered returns the absolute screen position.
func (c Coords) XYCentered() (x, y int) {
	x, y = ToXY(c.Angle, c.R)
	return x + c.CenterX, y + c.CenterY
}

func (c Coords) Degrees() float64 {
	return ToDegrees(c.Angle)
}

func (c Coords) String() string {
	return fmt.Sprintf("p=%.2f (%.2f°) r=%d center=(%d, %d)", c.Angle, c.Degrees(), c.R, c.CenterX, c.CenterY)
}

// ToRadians wraps d into [0,360) before converting.
func ToRadians(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d * math.Pi / 180
}

// ToDegrees wraps p into [0,2π) before converting.
func ToDegrees(p float64) float64 {
	p = math.Mod(p, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p * 180 / math.Pi
}
