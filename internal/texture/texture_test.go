package texture

import (
	"math"
	"path/filepath"
	"testing"

	"scanline-renderer/internal/picture"
	"scanline-renderer/internal/polar"
)

// coordPicture encodes each pixel's position in its color: 0xff00XXYY.
func coordPicture(w, h int) *picture.Picture {
	p := picture.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.SetPixel(x, y, 0xff000000|uint32(x)<<8|uint32(y))
		}
	}
	return p
}

func newMatchedTexture() *Texture {
	tex := New(coordPicture(64, 64))
	tex.SetCoords(0, 0, 0, 1, 1, 1)
	// Same right triangle as the UV area, moved to (100, 100).
	tex.SetImageAngle(100, 100, 100, 163, 163, 163)
	return tex
}

func TestSetCoordsBuildsSpanAtCorner1(t *testing.T) {
	tex := New(coordPicture(64, 64))
	tex.SetCoords(0, 0, 0, 1, 1, 1)

	if x, y := tex.UVAngle().Center(); x != 0 || y != 63 {
		t.Errorf("UV span center = (%d, %d), want (0, 63)", x, y)
	}
	if r := tex.UVAngle().P0.R; r != 63 {
		t.Errorf("UV span P0.R = %d, want 63", r)
	}
	if d := tex.UVAngle().DeltaAngle; math.Abs(d-math.Pi/2) > 1e-9 {
		t.Errorf("UV span DeltaAngle = %v, want π/2", d)
	}
}

func TestSetImageAngleScale(t *testing.T) {
	tex := newMatchedTexture()
	if s := tex.ScaleAngle(); math.Abs(s-1) > 1e-9 {
		t.Errorf("ScaleAngle() = %v, want 1", s)
	}
	if x, y := tex.ImageCenter(); x != 100 || y != 163 {
		t.Errorf("ImageCenter() = (%d, %d), want (100, 163)", x, y)
	}
}

func TestGetPixelMatchedGeometry(t *testing.T) {
	tex := newMatchedTexture()

	points := [][2]int{{110, 150}, {101, 120}, {130, 160}, {150, 162}}
	for _, pt := range points {
		p, r := polar.FromXY(pt[0]-100, pt[1]-163)
		c := tex.GetPixel(p, r)
		if c == 0 {
			t.Errorf("GetPixel at (%d, %d) returned transparent", pt[0], pt[1])
			continue
		}
		gx, gy := int(c>>8&0xff), int(c&0xff)
		wx, wy := pt[0]-100, pt[1]-100
		if iabs(gx-wx) > 1 || iabs(gy-wy) > 1 {
			t.Errorf("GetPixel at (%d, %d) sampled (%d, %d), want ≈(%d, %d)", pt[0], pt[1], gx, gy, wx, wy)
		}
	}
}

func TestGetPixelDeterministic(t *testing.T) {
	tex := newMatchedTexture()

	p, r := polar.FromXY(20, -30)
	first := tex.GetPixel(p, r)
	for i := 0; i < 10; i++ {
		if got := tex.GetPixel(p, r); got != first {
			t.Fatalf("GetPixel call %d = %#x, want %#x", i, got, first)
		}
	}
}

func TestSortBookkeepingKeepsCenter(t *testing.T) {
	tex := New(coordPicture(8, 8))
	tex.SetCoords(0, 0, 0, 1, 1, 1)

	// The caller's vertex 1 ended up first after sorting.
	tex.ResetSort()
	tex.Exchange(0, 1)
	tex.SetImageAngle(5, 5, 10, 20, 30, 40)

	if x, y := tex.ImageCenter(); x != 5 || y != 5 {
		t.Errorf("ImageCenter() = (%d, %d), want (5, 5)", x, y)
	}

	tex.ResetSort()
	tex.SetImageAngle(5, 5, 10, 20, 30, 40)
	if x, y := tex.ImageCenter(); x != 10 || y != 20 {
		t.Errorf("ImageCenter() after ResetSort = (%d, %d), want (10, 20)", x, y)
	}
}

func TestGetPixelUV(t *testing.T) {
	tex := New(coordPicture(16, 16))
	if got := tex.GetPixelUV(1, 0); got != 0xff000f00 {
		t.Errorf("GetPixelUV(1, 0) = %#x, want 0xff000f00", got)
	}
}

func TestLoadFailureLeavesTextureEmpty(t *testing.T) {
	tex := New(coordPicture(4, 4))
	err := tex.Load(filepath.Join(t.TempDir(), "missing.bmp"))
	if err == nil {
		t.Fatal("Load() of a missing file returned nil error")
	}
	if tex.Picture != nil {
		t.Error("Picture should be nil after a failed load")
	}
	if got := tex.GetPixel(0, 10); got != 0 {
		t.Errorf("GetPixel on empty texture = %#x, want 0", got)
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
