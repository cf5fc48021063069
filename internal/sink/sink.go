// Package sink encodes rendered frames to GIF, BMP or WebP files.
//
// A Sink is a single tagged implementation of the frame-sink contract: the
// Format chosen at construction decides how frames are converted and when
// they reach disk. Animated formats buffer frames and encode on Close;
// BMP writes one still per frame when the output path holds a %d verb and
// keeps only the last frame otherwise.
package sink

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"scanline-renderer/internal/logging"
)

var (
	ErrNotCreated   = errors.New("sink: output not created")
	ErrNotBegun     = errors.New("sink: Begin not called")
	ErrEmptyPalette = errors.New("sink: indexed format needs a palette")
)

// Options tune the animated encoders.
type Options struct {
	// Delay between frames in hundredths of a second.
	Delay int
	// LoopCount follows image/gif: 0 loops forever, -1 plays once,
	// n > 0 repeats n more times.
	LoopCount int
	// BackgroundIndex is the GIF logical screen background color.
	BackgroundIndex uint8
	// Transparent marks palette entry TransparentIndex as transparent in
	// indexed GIF output.
	Transparent      bool
	TransparentIndex uint8
}

// Sink writes frames of one Format. It is not safe for concurrent use.
type Sink struct {
	format Format
	width  int
	height int
	opts   Options

	path    string
	pattern string // BMP per-frame path, contains a % verb
	w       io.WriteCloser

	palette color.Palette
	count   int
	begun   bool
	closed  bool

	anim   gif.GIF
	frames []image.Image // WebP
	last   image.Image   // single-file BMP
}

// New returns a sink for w×h frames.
func New(format Format, w, h int, opts Options) *Sink {
	return &Sink{format: format, width: w, height: h, opts: opts}
}

// Format returns the sink's encoder.
func (s *Sink) Format() Format { return s.format }

// Frames returns the number of frames accepted so far.
func (s *Sink) Frames() int { return s.count }

// Create opens the output file. A BMP path containing '%' is kept as a
// pattern and formatted with the frame number on every AppendFrame.
func (s *Sink) Create(path string) error {
	if s.w != nil || s.pattern != "" {
		return fmt.Errorf("sink: %s already created", s.path)
	}
	s.path = path

	if (s.format == BMP8 || s.format == BMP24) && strings.Contains(path, "%") {
		s.pattern = path
		logging.Logger().Info("output created", "pattern", path, "format", s.format)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", path, err)
	}
	s.w = f
	logging.Logger().Info("output created", "path", path, "format", s.format)
	return nil
}

// SetPalette stores 0xRRGGBB palette entries for indexed output. Entries
// past 256 are ignored.
func (s *Sink) SetPalette(colors []uint32) {
	s.palette = toPalette(colors)
}

// Begin checks that the sink is ready to take frames.
func (s *Sink) Begin() error {
	if s.w == nil && s.pattern == "" {
		return ErrNotCreated
	}
	if len(s.palette) == 0 {
		switch s.format {
		case GIF, BMP8:
			return ErrEmptyPalette
		case GIFDither:
			s.palette = palette.WebSafe
		}
	}
	s.anim = gif.GIF{LoopCount: s.opts.LoopCount, BackgroundIndex: s.opts.BackgroundIndex}
	if len(s.palette) > 0 {
		s.anim.Config = image.Config{ColorModel: s.gifPalette(s.palette), Width: s.width, Height: s.height}
	}
	s.begun = true
	return nil
}

// AppendFrame converts one frame and queues or writes it. pix is laid out
// as Format.BytesPerPixel bytes per pixel. A non-empty pal overrides the
// stored palette for this frame.
func (s *Sink) AppendFrame(pix []byte, pal []uint32) error {
	if s.closed {
		return errors.New("sink: append after close")
	}
	if !s.begun {
		return ErrNotBegun
	}
	if want := s.width * s.height * s.format.BytesPerPixel(); len(pix) != want {
		return fmt.Errorf("sink: frame is %d bytes, want %d", len(pix), want)
	}

	framePal := s.palette
	if len(pal) > 0 && s.format != GIFDither {
		framePal = toPalette(pal)
	}

	switch s.format {
	case GIF:
		s.appendGIF(s.paletted(pix, s.gifPalette(framePal)))
	case GIFDither:
		s.appendGIF(s.dither(s.nrgba(pix), framePal))
	case BMP8:
		if err := s.writeStill(s.paletted(pix, framePal)); err != nil {
			return err
		}
	case BMP24:
		if err := s.writeStill(s.nrgba(pix)); err != nil {
			return err
		}
	case WebP:
		s.frames = append(s.frames, s.nrgba(pix))
	}
	s.count++
	return nil
}

func (s *Sink) appendGIF(img *image.Paletted) {
	s.anim.Image = append(s.anim.Image, img)
	s.anim.Delay = append(s.anim.Delay, s.opts.Delay)
}

// gifPalette applies the transparent entry. pal is not modified.
func (s *Sink) gifPalette(pal color.Palette) color.Palette {
	if !s.opts.Transparent || s.format != GIF || int(s.opts.TransparentIndex) >= len(pal) {
		return pal
	}
	out := slices.Clone(pal)
	out[s.opts.TransparentIndex] = color.RGBA{}
	return out
}

func (s *Sink) writeStill(img image.Image) error {
	if s.pattern == "" {
		s.last = img
		return nil
	}
	path := fmt.Sprintf(s.pattern, s.count)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", path, err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("sink: encode %s: %w", path, err)
	}
	return f.Close()
}

// Close encodes buffered frames and closes the file. Later calls return nil.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.w == nil {
		if s.pattern != "" {
			logging.Logger().Info("output closed", "pattern", s.pattern, "frames", s.count)
		}
		return nil
	}

	err := s.flush()
	if cerr := s.w.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return fmt.Errorf("sink: close %s: %w", s.path, err)
	}
	logging.Logger().Info("output closed", "path", s.path, "frames", s.count)
	return nil
}

func (s *Sink) flush() error {
	if s.count == 0 {
		logging.Logger().Warn("output has no frames", "path", s.path)
		return nil
	}

	switch s.format {
	case GIF, GIFDither:
		return gif.EncodeAll(s.w, &s.anim)
	case BMP8, BMP24:
		return bmp.Encode(s.w, s.last)
	case WebP:
		if len(s.frames) == 1 {
			return nativewebp.Encode(s.w, s.frames[0], nil)
		}
		return nativewebp.EncodeAll(s.w, s.animation(), nil)
	}
	return nil
}

func (s *Sink) animation() *nativewebp.Animation {
	n := len(s.frames)
	ani := &nativewebp.Animation{
		Images:    s.frames,
		Durations: make([]uint, n),
		Disposals: make([]uint, n),
	}
	for i := range ani.Durations {
		ani.Durations[i] = uint(max(s.opts.Delay, 0) * 10)
	}
	switch {
	case s.opts.LoopCount < 0:
		ani.LoopCount = 1
	case s.opts.LoopCount > 0:
		ani.LoopCount = uint16(min(s.opts.LoopCount+1, 0xffff))
	}
	return ani
}

func (s *Sink) bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

func (s *Sink) paletted(pix []byte, pal color.Palette) *image.Paletted {
	img := image.NewPaletted(s.bounds(), pal)
	copy(img.Pix, pix)
	return img
}

// nrgba converts little-endian ARGB words to an opaque NRGBA image. The
// framebuffer holds displayed colors, so its alpha byte is not carried over.
func (s *Sink) nrgba(pix []byte) *image.NRGBA {
	img := image.NewNRGBA(s.bounds())
	for i := 0; i < s.width*s.height; i++ {
		c := binary.LittleEndian.Uint32(pix[i*4:])
		o := i * 4
		img.Pix[o] = uint8(c >> 16)
		img.Pix[o+1] = uint8(c >> 8)
		img.Pix[o+2] = uint8(c)
		img.Pix[o+3] = 0xff
	}
	return img
}

func (s *Sink) dither(src *image.NRGBA, pal color.Palette) *image.Paletted {
	dst := image.NewPaletted(s.bounds(), pal)
	xdraw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// toPalette converts 0xRRGGBB entries and pads the result to 256 colors
// so every byte value is a valid index.
func toPalette(colors []uint32) color.Palette {
	if len(colors) == 0 {
		return nil
	}
	n := min(len(colors), 256)
	pal := make(color.Palette, 256)
	for i := range pal {
		var c uint32
		if i < n {
			c = colors[i]
		}
		pal[i] = color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
	}
	return pal
}
