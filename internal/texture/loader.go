package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"scanline-renderer/internal/picture"
)

// Source loads a raster from disk and exposes it as row-major ARGB.
type Source interface {
	Load(path string) error
	Width() int
	Height() int
	Pixels() []uint32
}

type decoder struct {
	format string
	decode func(io.Reader) (image.Image, error)
}

// decoders picks a decoder by file extension. TGA has no magic number,
// so content sniffing through image.Decode is not used.
var decoders = map[string]decoder{
	".bmp":  {"bmp", bmp.Decode},
	".gif":  {"gif", gif.Decode},
	".png":  {"png", png.Decode},
	".jpg":  {"jpeg", jpeg.Decode},
	".jpeg": {"jpeg", jpeg.Decode},
	".tga":  {"tga", tga.Decode},
	".webp": {"webp", nativewebp.Decode},
}

func supported(ext string) bool {
	_, ok := decoders[ext]
	return ok
}

// ImageSource decodes BMP, GIF, PNG, JPEG, TGA and WebP files.
type ImageSource struct {
	format string
	width  int
	height int
	pix    []uint32
}

// Load reads and decodes path. A failed load leaves the source empty.
func (s *ImageSource) Load(path string) error {
	*s = ImageSource{}

	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("texture: unsupported format %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, err := dec.decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("texture: decode %s: %w", path, err)
	}

	pic := picture.FromImage(img)
	s.format = dec.format
	s.width = pic.Width
	s.height = pic.Height
	s.pix = pic.Pix
	return nil
}

func (s *ImageSource) Width() int       { return s.width }
func (s *ImageSource) Height() int      { return s.height }
func (s *ImageSource) Pixels() []uint32 { return s.pix }

// Format is the decoder name that accepted the last file ("bmp", "png", ...).
func (s *ImageSource) Format() string { return s.format }

// FromSource copies a loaded source into a new Picture.
func FromSource(src Source) *picture.Picture {
	return picture.FromPixels(src.Width(), src.Height(), src.Pixels())
}

// LoadPicture reads a raster file into a Picture.
func LoadPicture(path string) (*picture.Picture, error) {
	var src ImageSource
	if err := src.Load(path); err != nil {
		return nil, err
	}
	return FromSource(&src), nil
}
