package mathutil

// ProjectionScale is the fixed camera distance of the weak-perspective divide.
const ProjectionScale = -1024.0

// Vertex is an integer model/screen-space position.
type Vertex struct {
	X, Y, Z int
}

// Triangle is three vertices. Degenerate triangles are allowed.
type Triangle [3]Vertex

// LoadTriangle builds a Triangle from {x0,y0,z0, x1,y1,z1, x2,y2,z2}.
func LoadTriangle(coords [9]int) Triangle {
	return Triangle{
		{coords[0], coords[1], coords[2]},
		{coords[3], coords[4], coords[5]},
		{coords[6], coords[7], coords[8]},
	}
}

// Rotate rotates every vertex.
func (t Triangle) Rotate(r Rotation) Triangle {
	for i := range t {
		t[i] = Rotate(t[i], r)
	}
	return t
}

// Translate adds the offset to every vertex.
func (t Triangle) Translate(dx, dy, dz int) Triangle {
	for i := range t {
		t[i].X += dx
		t[i].Y += dy
		t[i].Z += dz
	}
	return t
}

// Project applies the weak-perspective divide to every vertex.
func (t Triangle) Project() Triangle {
	for i := range t {
		t[i] = Project(t[i])
	}
	return t
}

// Project divides x and y by the vertex's distance from the camera; z is
// kept for the depth buffer. A vertex at z == 0 is returned unchanged, as is
// one sitting exactly on the camera plane.
func Project(v Vertex) Vertex {
	if v.Z == 0 {
		return v
	}
	z := float64(v.Z) + ProjectionScale
	if z == 0 {
		return v
	}
	v.X = int(ProjectionScale * (float64(v.X) / z))
	v.Y = int(ProjectionScale * (float64(v.Y) / z))
	return v
}
