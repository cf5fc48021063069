package postprocess

import (
	"image"

	"golang.org/x/image/draw"

	"scanline-renderer/internal/picture"
)

// Downsample reduces a supersampled frame to w×h with premultiplied-alpha-aware
// Catmull-Rom filtering. This prevents dark halo artifacts at transparent edges.
func Downsample(pic *picture.Picture, w, h int) *picture.Picture {
	if pic.Width <= w && pic.Height <= h {
		return pic
	}

	// Premultiply alpha
	b := image.Rect(0, 0, pic.Width, pic.Height)
	premul := image.NewRGBA(b)
	for i, c := range pic.Pix {
		a8, r8, g8, b8 := picture.SplitARGB(c)
		a := float64(a8) / 255.0
		di := i * 4
		premul.Pix[di] = uint8(float64(r8)*a + 0.5)
		premul.Pix[di+1] = uint8(float64(g8)*a + 0.5)
		premul.Pix[di+2] = uint8(float64(b8)*a + 0.5)
		premul.Pix[di+3] = a8
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	// Unpremultiply alpha
	out := picture.New(w, h)
	for i := range out.Pix {
		si := i * 4
		a := float64(dst.Pix[si+3])
		var r, g, bl uint8
		if a > 1 {
			inv := 255.0 / a
			r = clamp8(float64(dst.Pix[si]) * inv)
			g = clamp8(float64(dst.Pix[si+1]) * inv)
			bl = clamp8(float64(dst.Pix[si+2]) * inv)
		}
		out.Pix[i] = picture.ARGB(dst.Pix[si+3], r, g, bl)
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
