package picture

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Picture is an owned ARGB raster (0xAARRGGBB per pixel, row-major).
type Picture struct {
	Width  int
	Height int
	Pix    []uint32 // len = Width*Height
}

// New allocates a zeroed (transparent black) picture.
func New(w, h int) *Picture {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Picture{
		Width:  w,
		Height: h,
		Pix:    make([]uint32, w*h),
	}
}

// FromPixels wraps a row-major ARGB buffer. The buffer is copied.
func FromPixels(w, h int, pix []uint32) *Picture {
	p := New(w, h)
	copy(p.Pix, pix)
	return p
}

// FromImage converts any decoded image into a Picture.
func FromImage(src image.Image) *Picture {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	p := New(b.Dx(), b.Dy())
	for y := 0; y < p.Height; y++ {
		off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
		row := p.Pix[y*p.Width : (y+1)*p.Width]
		for x := range row {
			i := off + x*4
			row[x] = ARGB(nrgba.Pix[i+3], nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
		}
	}
	return p
}

// ToNRGBA converts the picture into a standard library image.
func (p *Picture) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i, c := range p.Pix {
		a, r, g, b := SplitARGB(c)
		img.Pix[i*4] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return img
}

// GetPixel returns 0 outside the raster.
func (p *Picture) GetPixel(x, y int) uint32 {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return 0
	}
	return p.Pix[y*p.Width+x]
}

// SetPixel ignores writes outside the raster.
func (p *Picture) SetPixel(x, y int, color uint32) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Pix[y*p.Width+x] = color
}

// GetScaledPixel box-filters the source footprint [u,u+w)×[v,v+h).
//
// Only the (up to) four source pixels at the footprint's corners are
// sampled, each weighted by its horizontal × vertical overlap. Samples
// outside the raster are dropped from both the sum and the denominator, so
// footprints hanging off an edge are averaged over what remains.
func (p *Picture) GetScaledPixel(u, v, w, h float64) uint32 {
	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))

	if u+w <= float64(x0+1) && v+h <= float64(y0+1) {
		return p.GetPixel(x0, y0)
	}

	xs, wxs, nx := overlaps(u, w)
	ys, wys, ny := overlaps(v, h)

	var sumA, sumR, sumG, sumB, total float64
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			weight := wxs[i] * wys[j]
			if weight <= 0 {
				continue
			}
			x, y := xs[i], ys[j]
			if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
				continue
			}
			a, r, g, b := SplitARGB(p.Pix[y*p.Width+x])
			sumA += float64(a) * weight
			sumR += float64(r) * weight
			sumG += float64(g) * weight
			sumB += float64(b) * weight
			total += weight
		}
	}

	if total == 0 {
		return 0
	}

	return ARGB(
		clamp255(sumA/total),
		clamp255(sumR/total),
		clamp255(sumG/total),
		clamp255(sumB/total),
	)
}

// overlaps returns the first and last source cells touched by [start,start+size)
// along one axis and the length of the footprint inside each.
func overlaps(start, size float64) (cells [2]int, weights [2]float64, n int) {
	end := start + size
	first := int(math.Floor(start))
	last := int(math.Floor(end))

	cells[0] = first
	weights[0] = math.Min(float64(first+1), end) - start
	n = 1

	if last != first {
		cells[1] = last
		weights[1] = end - float64(last)
		n = 2
	}
	return cells, weights, n
}

// SetColorTransparent clears the alpha of every pixel whose RGB matches color.
func (p *Picture) SetColorTransparent(color uint32) {
	rgb := color & 0xffffff
	for i, c := range p.Pix {
		if c&0xffffff == rgb {
			p.Pix[i] = c & 0xffffff
		}
	}
}

// UpdateAlpha replaces the alpha byte of every pixel.
func (p *Picture) UpdateAlpha(value uint8) {
	for i, c := range p.Pix {
		p.Pix[i] = c&0xffffff | uint32(value)<<24
	}
}

// UpdateAlphaExcept is UpdateAlpha but leaves pixels whose RGB equals ignore untouched.
func (p *Picture) UpdateAlphaExcept(value uint8, ignore uint32) {
	ignore &= 0xffffff
	for i, c := range p.Pix {
		if c&0xffffff == ignore {
			continue
		}
		p.Pix[i] = c&0xffffff | uint32(value)<<24
	}
}

// SplitARGB unpacks a 0xAARRGGBB color.
func SplitARGB(c uint32) (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ARGB packs channels into 0xAARRGGBB.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
