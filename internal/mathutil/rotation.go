package mathutil

import "math"

// Rotation holds per-axis angles in radians. An axis whose angle is exactly
// 0 is skipped by Rotate, not multiplied through an identity matrix.
type Rotation struct {
	RX, RY, RZ float32
}

// LoadRotation builds a Rotation from {rx, ry, rz}.
func LoadRotation(values [3]float32) Rotation {
	return Rotation{RX: values[0], RY: values[1], RZ: values[2]}
}

// Add returns the component-wise sum, used to advance an animated rotation.
func (r Rotation) Add(o Rotation) Rotation {
	return Rotation{RX: r.RX + o.RX, RY: r.RY + o.RY, RZ: r.RZ + o.RZ}
}

// Scale multiplies every axis by s.
func (r Rotation) Scale(s float32) Rotation {
	return Rotation{RX: r.RX * s, RY: r.RY * s, RZ: r.RZ * s}
}

// Rotate applies X, then Y, then Z in single precision. Coordinates are
// truncated back to integers after each axis.
func Rotate(v Vertex, r Rotation) Vertex {
	x, y, z := v.X, v.Y, v.Z

	//	[ 1    0       0    ]
	//	[ 0  cos(rx) -sin(rx) ]
	//	[ 0  sin(rx)  cos(rx) ]
	if r.RX != 0 {
		s, c := sincos32(r.RX)
		t := float32(y)*c - float32(z)*s
		z = int(float32(y)*s + float32(z)*c)
		y = int(t)
	}

	//	[  cos(ry) 0 sin(ry) ]
	//	[    0     1   0     ]
	//	[ -sin(ry) 0 cos(ry) ]
	if r.RY != 0 {
		s, c := sincos32(r.RY)
		t := float32(x)*c + float32(z)*s
		z = int(-float32(x)*s + float32(z)*c)
		x = int(t)
	}

	//	[ cos(rz) -sin(rz) 0 ]
	//	[ sin(rz)  cos(rz) 0 ]
	//	[   0        0     1 ]
	if r.RZ != 0 {
		s, c := sincos32(r.RZ)
		t := float32(x)*c - float32(y)*s
		y = int(float32(x)*s + float32(y)*c)
		x = int(t)
	}

	return Vertex{X: x, Y: y, Z: z}
}

func sincos32(a float32) (s, c float32) {
	sf, cf := math.Sincos(float64(a))
	return float32(sf), float32(cf)
}
