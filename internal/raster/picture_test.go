package raster

import (
	"testing"

	"scanline-renderer/internal/picture"
)

func quadPicture() *picture.Picture {
	return picture.FromPixels(2, 2, []uint32{
		0xff110000, 0xff220000,
		0xff330000, 0xff440000,
	})
}

func TestDrawPicture(t *testing.T) {
	fb := NewFrameBuffer(4, 4, ARGB)
	fb.DrawPicture(quadPicture(), 1, 2)

	tests := []struct {
		x, y int
		want uint32
	}{
		{1, 2, 0xff110000},
		{2, 2, 0xff220000},
		{1, 3, 0xff330000},
		{2, 3, 0xff440000},
		{0, 0, 0},
		{3, 3, 0},
	}
	for _, tt := range tests {
		if got := fb.Pixel(tt.x, tt.y); got != tt.want {
			t.Errorf("Pixel(%d, %d) = %#x, want %#x", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawPictureClipped(t *testing.T) {
	fb := NewFrameBuffer(2, 2, ARGB)
	fb.DrawPicture(quadPicture(), 1, 1)
	if got := fb.Pixel(1, 1); got != 0xff110000 {
		t.Errorf("Pixel(1, 1) = %#x, want 0xff110000", got)
	}
	if n := len(painted(fb)); n != 1 {
		t.Errorf("painted %d pixels, want 1", n)
	}
}

func TestDrawPictureZRespectsDepth(t *testing.T) {
	fb := NewFrameBuffer(2, 2, ARGB)
	fb.DrawRectZ(0, 0, 1, 1, 0xff000001, 10)
	fb.DrawPictureZ(quadPicture(), 0, 0, 5)
	if got := fb.Pixel(0, 0); got != 0xff000001 {
		t.Errorf("Pixel(0, 0) = %#x, want rect color kept", got)
	}
	fb.DrawPictureZ(quadPicture(), 0, 0, 10)
	if got := fb.Pixel(1, 1); got != 0xff440000 {
		t.Errorf("Pixel(1, 1) = %#x, want 0xff440000", got)
	}
}

func TestDrawPictureScaledNearest(t *testing.T) {
	fb := NewFrameBuffer(4, 4, ARGB)
	fb.DrawPictureScaled(quadPicture(), 0, 0, 4, 4)

	tests := []struct {
		x, y int
		want uint32
	}{
		{0, 0, 0xff110000},
		{1, 1, 0xff110000},
		{2, 0, 0xff220000},
		{0, 3, 0xff330000},
		{3, 3, 0xff440000},
	}
	for _, tt := range tests {
		if got := fb.Pixel(tt.x, tt.y); got != tt.want {
			t.Errorf("Pixel(%d, %d) = %#x, want %#x", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawPictureHighQualityUniform(t *testing.T) {
	const c = 0xff336699
	pic := picture.New(4, 4)
	for i := range pic.Pix {
		pic.Pix[i] = c
	}

	fb := NewFrameBuffer(2, 2, ARGB)
	fb.DrawPictureHighQuality(pic, 0, 0, 2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := fb.Pixel(x, y); got != c {
				t.Errorf("Pixel(%d, %d) = %#x, want %#x", x, y, got, uint32(c))
			}
		}
	}
}

func TestDrawPictureScaledEmptyBox(t *testing.T) {
	fb := NewFrameBuffer(2, 2, ARGB)
	fb.DrawPictureScaled(quadPicture(), 0, 0, 0, 2)
	fb.DrawPictureHighQualityZ(quadPicture(), 0, 0, 2, 0, 1)
	if n := len(painted(fb)); n != 0 {
		t.Errorf("empty destination box painted %d pixels", n)
	}
}
