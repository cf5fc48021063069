package raster

import "scanline-renderer/internal/picture"

// blit walks a w×h destination box at (x0, y0). The source position starts
// at (0, 0) and advances by (su, sv) per destination pixel.
func blit(w, h int, su, sv float64, sample func(u, v float64) uint32, put func(x, y int, c uint32)) {
	v := 0.0
	for y := 0; y < h; y++ {
		u := 0.0
		for x := 0; x < w; x++ {
			put(x, y, sample(u, v))
			u += su
		}
		v += sv
	}
}

func (fb *FrameBuffer) putAt(x0, y0 int) func(x, y int, c uint32) {
	return func(x, y int, c uint32) { fb.DrawPixel(x0+x, y0+y, c) }
}

func (fb *FrameBuffer) putAtZ(x0, y0, z int) func(x, y int, c uint32) {
	return func(x, y int, c uint32) { fb.DrawPixelZ(x0+x, y0+y, c, z) }
}

func nearest(pic *picture.Picture) func(u, v float64) uint32 {
	return func(u, v float64) uint32 { return pic.GetPixel(int(u), int(v)) }
}

func boxFiltered(pic *picture.Picture, su, sv float64) func(u, v float64) uint32 {
	return func(u, v float64) uint32 { return pic.GetScaledPixel(u, v, su, sv) }
}

func scaleFactors(pic *picture.Picture, w, h int) (su, sv float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return float64(pic.Width) / float64(w), float64(pic.Height) / float64(h)
}

// DrawPicture copies pic 1:1 with its top-left corner at (x0, y0).
func (fb *FrameBuffer) DrawPicture(pic *picture.Picture, x0, y0 int) {
	blit(pic.Width, pic.Height, 1, 1, nearest(pic), fb.putAt(x0, y0))
}

// DrawPictureZ is DrawPicture under the depth test at a constant z.
func (fb *FrameBuffer) DrawPictureZ(pic *picture.Picture, x0, y0, z int) {
	blit(pic.Width, pic.Height, 1, 1, nearest(pic), fb.putAtZ(x0, y0, z))
}

// DrawPictureScaled stretches pic into a w×h box using nearest-neighbor
// sampling.
func (fb *FrameBuffer) DrawPictureScaled(pic *picture.Picture, x0, y0, w, h int) {
	su, sv := scaleFactors(pic, w, h)
	blit(w, h, su, sv, nearest(pic), fb.putAt(x0, y0))
}

// DrawPictureScaledZ is DrawPictureScaled under the depth test.
func (fb *FrameBuffer) DrawPictureScaledZ(pic *picture.Picture, x0, y0, w, h, z int) {
	su, sv := scaleFactors(pic, w, h)
	blit(w, h, su, sv, nearest(pic), fb.putAtZ(x0, y0, z))
}

// DrawPictureHighQuality stretches pic into a w×h box, box-filtering each
// destination pixel's footprint.
func (fb *FrameBuffer) DrawPictureHighQuality(pic *picture.Picture, x0, y0, w, h int) {
	su, sv := scaleFactors(pic, w, h)
	blit(w, h, su, sv, boxFiltered(pic, su, sv), fb.putAt(x0, y0))
}

// DrawPictureHighQualityZ is DrawPictureHighQuality under the depth test.
func (fb *FrameBuffer) DrawPictureHighQualityZ(pic *picture.Picture, x0, y0, w, h, z int) {
	su, sv := scaleFactors(pic, w, h)
	blit(w, h, su, sv, boxFiltered(pic, su, sv), fb.putAtZ(x0, y0, z))
}
