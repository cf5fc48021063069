package raster

import (
	"errors"
	"fmt"

	"scanline-renderer/internal/logging"
)

// FrameSink receives finished frames. Implementations own the output file.
type FrameSink interface {
	Create(path string) error
	SetPalette(palette []uint32)
	// Begin writes any static headers. It follows SetPalette.
	Begin() error
	AppendFrame(pix []byte, palette []uint32) error
	// Close finalizes the output. Calling it again is a no-op.
	Close() error
}

// MaxColors is the palette capacity of an Engine.
const MaxColors = 256

var ErrPaletteFull = errors.New("raster: palette full")

// Engine pairs one FrameBuffer with a palette and the sink its frames go to.
// Draw calls go straight to the embedded FrameBuffer.
type Engine struct {
	*FrameBuffer

	palette    [MaxColors]uint32
	colorCount int
	sink       FrameSink
	frames     int
	finished   bool
}

// NewEngine allocates a w×h framebuffer in the given mode writing to sink.
func NewEngine(w, h int, mode Mode, sink FrameSink) *Engine {
	return &Engine{
		FrameBuffer: NewFrameBuffer(w, h, mode),
		sink:        sink,
	}
}

// Create opens the sink's output.
func (e *Engine) Create(path string) error {
	if err := e.sink.Create(path); err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	return nil
}

// AddColor appends a palette entry and returns its index.
func (e *Engine) AddColor(color uint32) (int, error) {
	if e.colorCount >= MaxColors {
		return 0, ErrPaletteFull
	}
	e.palette[e.colorCount] = color
	e.colorCount++
	return e.colorCount - 1, nil
}

// SetColor overwrites palette entry index, growing the palette to cover it.
func (e *Engine) SetColor(index int, color uint32) error {
	if index < 0 || index >= MaxColors {
		return fmt.Errorf("raster: palette index %d out of range", index)
	}
	e.palette[index] = color
	if e.colorCount <= index {
		e.colorCount = index + 1
	}
	return nil
}

// Palette returns the colors defined so far.
func (e *Engine) Palette() []uint32 {
	return e.palette[:e.colorCount]
}

// InitEnd hands the palette to the sink and writes its headers. Palette
// changes after this point only affect frames, not headers.
func (e *Engine) InitEnd() error {
	e.sink.SetPalette(e.Palette())
	if err := e.sink.Begin(); err != nil {
		return fmt.Errorf("raster: begin output: %w", err)
	}
	return nil
}

// WriteFrame appends the current framebuffer contents as one frame.
func (e *Engine) WriteFrame() error {
	return e.AppendPixels(e.Pix)
}

// AppendPixels appends a frame rendered elsewhere. pix must use the
// engine's mode and size.
func (e *Engine) AppendPixels(pix []byte) error {
	if e.finished {
		return errors.New("raster: append after finish")
	}
	if want := e.Width * e.Height * e.Mode.BytesPerPixel(); len(pix) != want {
		return fmt.Errorf("raster: frame is %d bytes, want %d", len(pix), want)
	}
	if err := e.sink.AppendFrame(pix, e.Palette()); err != nil {
		return fmt.Errorf("raster: frame %d: %w", e.frames, err)
	}
	e.frames++
	logging.Logger().Debug("frame written", "frame", e.frames-1)
	return nil
}

// Frames returns how many frames were written.
func (e *Engine) Frames() int {
	return e.frames
}

// Finish closes the sink. Later calls do nothing.
func (e *Engine) Finish() error {
	if e.finished {
		return nil
	}
	e.finished = true
	if err := e.sink.Close(); err != nil {
		return fmt.Errorf("raster: finish: %w", err)
	}
	return nil
}
