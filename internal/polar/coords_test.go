package polar

import (
	"math"
	"testing"
)

func TestToDegrees(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{math.Pi / 2, 90},
		{math.Pi, 180},
		{math.Pi + math.Pi/2, 270},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 270},
		{5 * math.Pi / 2, 90},
	}
	for _, tt := range tests {
		if got := ToDegrees(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToDegrees(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestToRadians(t *testing.T) {
	tests := []struct {
		d    float64
		want float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{360, 0},
		{450, math.Pi / 2},
		{-90, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		if got := ToRadians(tt.d); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToRadians(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestFromXYQuarterTurn(t *testing.T) {
	tests := []struct {
		x, y    int
		degrees float64
		r       int
	}{
		{0, -10, 0, 10},
		{10, -10, 45, 14},
		{10, 0, 90, 10},
		{10, 10, 135, 14},
		{0, 10, 180, 10},
		{-10, 0, 270, 10},
	}
	for _, tt := range tests {
		var c Coords
		c.SetFromXY(tt.x, tt.y)
		if c.R != tt.r {
			t.Errorf("FromXY(%d, %d) r = %d, want %d", tt.x, tt.y, c.R, tt.r)
		}
		if math.Abs(c.Degrees()-tt.degrees) > 1e-9 {
			t.Errorf("FromXY(%d, %d) degrees = %v, want %v", tt.x, tt.y, c.Degrees(), tt.degrees)
		}
	}
}

func TestFromXYDoesNotNormalize(t *testing.T) {
	// atan2 of the lower-left quadrant plus a quarter turn is negative.
	p, _ := FromXY(-10, -10)
	if p >= 0 {
		t.Errorf("FromXY(-10, -10) angle = %v, want a raw negative angle", p)
	}
	if d := ToDegrees(p); math.Abs(d-315) > 1e-9 {
		t.Errorf("ToDegrees(FromXY(-10, -10)) = %v, want 315", d)
	}
}

func TestRoundTrip(t *testing.T) {
	for x := -100; x <= 100; x++ {
		for y := -100; y <= 100; y++ {
			p, r := FromXY(x, y)
			gx, gy := ToXY(p, r)
			if abs(gx-x) > 1 || abs(gy-y) > 1 {
				t.Fatalf("ToXY(FromXY(%d, %d)) = (%d, %d)", x, y, gx, gy)
			}
		}
	}
}

func TestCenteredConversion(t *testing.T) {
	var c Coords
	c.SetCenter(200, 200)

	tests := []struct {
		x, y    int
		degrees float64
	}{
		{200, 150, 0},
		{250, 200, 90},
		{200, 250, 180},
		{150, 200, 270},
	}
	for _, tt := range tests {
		c.SetFromXYCentered(tt.x, tt.y)
		if c.R != 50 {
			t.Errorf("SetFromXYCentered(%d, %d) r = %d, want 50", tt.x, tt.y, c.R)
		}
		if math.Abs(c.Degrees()-tt.degrees) > 1e-9 {
			t.Errorf("SetFromXYCentered(%d, %d) degrees = %v, want %v", tt.x, tt.y, c.Degrees(), tt.degrees)
		}
		if x, y := c.XYCentered(); x != tt.x || y != tt.y {
			t.Errorf("XYCentered() = (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
		}
	}
}

func TestSetAngleDegrees(t *testing.T) {
	c := Coords{R: 80}
	c.SetAngleDegrees(90)
	if x, y := c.XY(); x != 80 || y != 0 {
		t.Errorf("XY() at 90° = (%d, %d), want (80, 0)", x, y)
	}
	c.SetAngleDegrees(180)
	if x, y := c.XY(); x != 0 || y != 80 {
		t.Errorf("XY() at 180° = (%d, %d), want (0, 80)", x, y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
