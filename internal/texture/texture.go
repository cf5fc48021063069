package texture

import (
	"fmt"
	"math"

	"scanline-renderer/internal/picture"
	"scanline-renderer/internal/polar"
)

// Texture maps screen-space polar positions onto a source Picture.
//
// Two angular spans drive the mapping: the UV span, fixed by SetCoords and
// centered on UV corner 1, and the image span, rebuilt from the screen-space
// triangle on every draw and centered on the vertex carrying that corner.
// A screen (angle, radius) is converted to an angular offset inside the image
// span, carried across to the UV span, and the radius is rescaled by the
// ratio of the two spans' edge lengths along those rays. The result
// preserves angles around the center vertex rather than being affine.
type Texture struct {
	Picture *picture.Picture

	uv   [3][2]float64
	area [3][2]int

	angle      polar.Angle
	imageAngle polar.Angle
	scaleAngle float64

	// order[k] is the caller's vertex index now at sorted position k.
	order [3]int
}

// New wraps pic. SetCoords must be called before sampling by angle.
func New(pic *picture.Picture) *Texture {
	t := &Texture{Picture: pic}
	t.ResetSort()
	return t
}

// Load replaces the source picture with a raster read from path.
// On failure the texture keeps no picture and samples as transparent black.
func (t *Texture) Load(path string) error {
	pic, err := LoadPicture(path)
	if err != nil {
		t.Picture = nil
		return err
	}
	t.Picture = pic
	return nil
}

// SetCoords maps UV corners (0..1) into picture pixels and builds the UV
// span centered at corner 1 from corner 0 to corner 2.
func (t *Texture) SetCoords(u0, v0, u1, v1, u2, v2 float64) {
	t.uv = [3][2]float64{{u0, v0}, {u1, v1}, {u2, v2}}
	for i, c := range t.uv {
		t.area[i][0], t.area[i][1] = t.uvToXY(c[0], c[1])
	}

	t.angle.SetCenter(t.area[1][0], t.area[1][1])
	t.angle.SetFromXY(t.area[0][0], t.area[0][1], t.area[2][0], t.area[2][1])
	t.updateScale()
}

// SetImageAngle rebuilds the screen-space span from the sorted, projected
// triangle corners. The sort bookkeeping pairs each corner with its UV
// corner so both spans stay centered on the same vertex.
func (t *Texture) SetImageAngle(x0, y0, x1, y1, x2, y2 int) {
	sorted := [3][2]int{{x0, y0}, {x1, y1}, {x2, y2}}

	var pos [3][2]int
	for k, v := range t.order {
		pos[v] = sorted[k]
	}

	t.imageAngle.SetCenter(pos[1][0], pos[1][1])
	t.imageAngle.SetFromXY(pos[0][0], pos[0][1], pos[2][0], pos[2][1])
	t.updateScale()
}

func (t *Texture) updateScale() {
	if t.angle.DeltaAngle == 0 {
		t.scaleAngle = 0
		return
	}
	t.scaleAngle = math.Abs(t.imageAngle.DeltaAngle / t.angle.DeltaAngle)
}

// ImageCenter is the screen position every polar lookup is relative to.
func (t *Texture) ImageCenter() (x, y int) {
	return t.imageAngle.Center()
}

// GetPixel returns the source color for a screen position given as angle
// and radius around ImageCenter. It reads only configuration state.
func (t *Texture) GetPixel(p float64, r int) uint32 {
	if t.Picture == nil {
		return 0
	}

	diff := t.imageAngle.AngleDiff(p)
	tp := t.angle.AngleFromOffset(diff, t.scaleAngle)

	imageLength := t.imageAngle.LengthAt(p)
	textureLength := t.angle.LengthAt(tp)

	radius := r
	if imageLength != 0 {
		radius = int(float64(r) * float64(textureLength) / float64(imageLength))
	}

	coords := polar.Coords{Angle: tp, R: radius}
	coords.SetCenter(t.angle.Center())
	x, y := coords.XYCentered()

	return t.Picture.GetPixel(x, y)
}

// GetPixelUV samples the picture directly at normalized coordinates.
func (t *Texture) GetPixelUV(u, v float64) uint32 {
	if t.Picture == nil {
		return 0
	}
	x, y := t.uvToXY(u, v)
	return t.Picture.GetPixel(x, y)
}

func (t *Texture) uvToXY(u, v float64) (x, y int) {
	if t.Picture == nil {
		return 0, 0
	}
	x = int(u * float64(t.Picture.Width-1))
	y = int(v * float64(t.Picture.Height-1))
	return x, y
}

// ResetSort marks the triangle as unsorted.
func (t *Texture) ResetSort() {
	t.order = [3]int{0, 1, 2}
}

// Exchange records that sorted positions i and j swapped vertices.
func (t *Texture) Exchange(i, j int) {
	t.order[i], t.order[j] = t.order[j], t.order[i]
}

func (t *Texture) UVAngle() *polar.Angle    { return &t.angle }
func (t *Texture) ImageAngle() *polar.Angle { return &t.imageAngle }
func (t *Texture) ScaleAngle() float64      { return t.scaleAngle }

func (t *Texture) String() string {
	w, h := 0, 0
	if t.Picture != nil {
		w, h = t.Picture.Width, t.Picture.Height
	}
	return fmt.Sprintf("picture=%dx%d uv=%v area=%v angle={%v} image={%v} scale=%.4f",
		w, h, t.uv, t.area, &t.angle, &t.imageAngle, t.scaleAngle)
}
