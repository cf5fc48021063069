package raster

import (
	"encoding/binary"
	"math"

	"scanline-renderer/internal/picture"
)

// Mode selects the pixel layout of a FrameBuffer. It is fixed at construction.
type Mode int

const (
	// Indexed stores one palette index per pixel.
	Indexed Mode = iota
	// ARGB stores one little-endian 0xAARRGGBB word per pixel.
	ARGB
)

// BytesPerPixel returns the size of one pixel in Pix.
func (m Mode) BytesPerPixel() int {
	if m == ARGB {
		return 4
	}
	return 1
}

func (m Mode) String() string {
	if m == ARGB {
		return "argb"
	}
	return "indexed"
}

// DepthFar is the cleared depth value. Any incoming z wins against it.
const DepthFar int16 = -32767

// FrameBuffer holds the rendering target as flat slices for cache locality.
// It is not safe for concurrent use; parallel renderers own one each.
type FrameBuffer struct {
	Width  int
	Height int
	Mode   Mode
	Pix    []uint8 // len = W*H*Mode.BytesPerPixel()
	ZBuf   []int16 // len = W*H

	// AlphaBlending composites ARGB writes over the existing pixel.
	AlphaBlending bool
}

// NewFrameBuffer allocates a cleared framebuffer and depth buffer.
func NewFrameBuffer(w, h int, mode Mode) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Mode:   mode,
		Pix:    make([]uint8, n*mode.BytesPerPixel()),
		ZBuf:   make([]int16, n),
	}
	fb.Clear()
	return fb
}

// Clear zeroes every pixel and resets depth to DepthFar.
func (fb *FrameBuffer) Clear() {
	clear(fb.Pix)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = DepthFar
	}
}

func (fb *FrameBuffer) inside(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// DrawPixel writes color at (x, y). Coordinates outside the buffer are
// ignored. In Indexed mode only the low byte of color is stored.
func (fb *FrameBuffer) DrawPixel(x, y int, color uint32) {
	if !fb.inside(x, y) {
		return
	}
	fb.put(y*fb.Width+x, color)
}

// DrawPixelZ writes color at (x, y) unless z is behind the stored depth.
// Equal depth is accepted, so the later write wins.
func (fb *FrameBuffer) DrawPixelZ(x, y int, color uint32, z int) {
	if !fb.inside(x, y) {
		return
	}
	i := y*fb.Width + x
	if z < int(fb.ZBuf[i]) {
		return
	}
	fb.put(i, color)
	fb.ZBuf[i] = saturate16(z)
}

func (fb *FrameBuffer) put(i int, color uint32) {
	if fb.Mode == Indexed {
		fb.Pix[i] = uint8(color)
		return
	}
	off := i * 4
	if fb.AlphaBlending {
		color = CalculateAlpha(color, binary.LittleEndian.Uint32(fb.Pix[off:]))
	}
	binary.LittleEndian.PutUint32(fb.Pix[off:], color)
}

// Pixel returns the stored value at (x, y): a palette index in Indexed mode,
// ARGB otherwise. Outside the buffer it returns 0.
func (fb *FrameBuffer) Pixel(x, y int) uint32 {
	if !fb.inside(x, y) {
		return 0
	}
	i := y*fb.Width + x
	if fb.Mode == Indexed {
		return uint32(fb.Pix[i])
	}
	return binary.LittleEndian.Uint32(fb.Pix[i*4:])
}

// Depth returns the stored depth at (x, y), or DepthFar outside the buffer.
func (fb *FrameBuffer) Depth(x, y int) int {
	if !fb.inside(x, y) {
		return int(DepthFar)
	}
	return int(fb.ZBuf[y*fb.Width+x])
}

// ToPicture converts the buffer to an ARGB Picture. Indexed pixels are
// looked up in palette; indices past its end become 0.
func (fb *FrameBuffer) ToPicture(palette []uint32) *picture.Picture {
	pic := picture.New(fb.Width, fb.Height)
	for i := range pic.Pix {
		if fb.Mode == ARGB {
			pic.Pix[i] = binary.LittleEndian.Uint32(fb.Pix[i*4:])
			continue
		}
		if idx := int(fb.Pix[i]); idx < len(palette) {
			pic.Pix[i] = palette[idx]
		}
	}
	return pic
}

// EncodeARGB packs ARGB words into the byte layout of an ARGB FrameBuffer.
func EncodeARGB(pix []uint32) []byte {
	out := make([]byte, len(pix)*4)
	for i, c := range pix {
		binary.LittleEndian.PutUint32(out[i*4:], c)
	}
	return out
}

func saturate16(z int) int16 {
	if z > math.MaxInt16 {
		return math.MaxInt16
	}
	if z < math.MinInt16 {
		return math.MinInt16
	}
	return int16(z)
}
