package batch

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/sink"
)

var _ raster.FrameSink = (*sink.Sink)(nil)

type memorySink struct {
	frames [][]byte
}

func (s *memorySink) Create(string) error { return nil }
func (s *memorySink) SetPalette([]uint32) {}
func (s *memorySink) Begin() error        { return nil }
func (s *memorySink) Close() error        { return nil }
func (s *memorySink) AppendFrame(pix []byte, _ []uint32) error {
	s.frames = append(s.frames, slices.Clone(pix))
	return nil
}

func movingRect(t *testing.T, mode raster.Mode) *scene.Scene {
	t.Helper()
	sc, err := scene.Parse([]byte(`{
		"width": 8, "height": 2,
		"palette": ["#000000", "#ffffff"],
		"objects": [{"kind": "rect", "to": [0, 1, 0], "velocity": [1, 0, 0], "color": 1}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Prepare(mode, nil); err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestRunAppendsFramesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	out := sink.New(sink.GIF, 8, 2, sink.Options{Delay: 5})
	eng := raster.NewEngine(8, 2, raster.Indexed, out)
	if err := eng.Create(path); err != nil {
		t.Fatal(err)
	}
	sc := movingRect(t, raster.Indexed)
	for _, c := range sc.PaletteColors() {
		if _, err := eng.AddColor(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.InitEnd(); err != nil {
		t.Fatal(err)
	}

	results, err := Run(context.Background(), Config{Frames: 6, Workers: 3}, sc, eng)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := eng.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("len(results) = %d, want 6", len(results))
	}
	for i, r := range results {
		if r.Frame != i || r.Error != "" {
			t.Errorf("results[%d] = %+v", i, r)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("gif.DecodeAll() error = %v", err)
	}
	if len(g.Image) != 6 {
		t.Fatalf("decoded %d frames, want 6", len(g.Image))
	}
	for i, img := range g.Image {
		if got := img.ColorIndexAt(i, 0); got != 1 {
			t.Errorf("frame %d: index at x=%d is %d, want 1", i, i, got)
		}
		if i > 0 && img.ColorIndexAt(i-1, 0) != 0 {
			t.Errorf("frame %d: stale pixel at x=%d", i, i-1)
		}
	}
}

func TestRunSupersampledARGB(t *testing.T) {
	mem := &memorySink{}
	eng := raster.NewEngine(8, 2, raster.ARGB, mem)
	sc := movingRect(t, raster.ARGB)

	if _, err := Run(context.Background(), Config{Frames: 2, Workers: 2, Supersample: 2}, sc, eng); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mem.frames) != 2 {
		t.Fatalf("sink got %d frames, want 2", len(mem.frames))
	}
	for i, pix := range mem.frames {
		if len(pix) != 8*2*4 {
			t.Fatalf("frame %d is %d bytes, want %d", i, len(pix), 8*2*4)
		}
		// Interior of the rect column after filtering.
		c := binary.LittleEndian.Uint32(pix[(1*8+i)*4:])
		if r := uint8(c >> 16); r < 0xc0 {
			t.Errorf("frame %d: red at x=%d = %#x, want near white", i, i, r)
		}
		far := binary.LittleEndian.Uint32(pix[(1*8+7)*4:])
		if far != 0xff000000 {
			t.Errorf("frame %d: far pixel = %#x, want opaque black", i, far)
		}
	}
}

func TestRunSupersampledEdges(t *testing.T) {
	sc, err := scene.Parse([]byte(`{
		"width": 4, "height": 4,
		"objects": [{"kind": "polar", "position": [1, 1, 0], "color": "#ffffff", "pixel": true}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Prepare(raster.ARGB, nil); err != nil {
		t.Fatal(err)
	}
	mem := &memorySink{}
	eng := raster.NewEngine(4, 4, raster.ARGB, mem)

	if _, err := Run(context.Background(), Config{Frames: 1, Workers: 2, Supersample: 2}, sc, eng); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mem.frames) != 1 {
		t.Fatalf("sink got %d frames, want 1", len(mem.frames))
	}
	pixel := func(x, y int) uint32 {
		return binary.LittleEndian.Uint32(mem.frames[0][(y*4+x)*4:])
	}

	// One of the four samples behind (1,1) is white.
	edge := pixel(1, 1)
	if r := uint8(edge >> 16); r == 0 || r == 0xff {
		t.Errorf("partly covered pixel = %#x, want gray", edge)
	}
	if got := pixel(3, 3); got != 0xff000000 {
		t.Errorf("untouched pixel = %#x, want opaque black", got)
	}
}

func TestRunReportsRenderError(t *testing.T) {
	for _, workers := range []int{1, 2} {
		eng := raster.NewEngine(8, 2, raster.ARGB, &memorySink{})
		// Prepared for Indexed, rendered into ARGB framebuffers.
		sc := movingRect(t, raster.Indexed)

		results, err := Run(context.Background(), Config{Frames: 3, Workers: workers}, sc, eng)
		if err == nil {
			t.Fatalf("workers=%d: Run() error = nil, want mode mismatch", workers)
		}
		if eng.Frames() != 0 {
			t.Errorf("workers=%d: engine got %d frames, want 0", workers, eng.Frames())
		}
		if results[0].Error == "" {
			t.Errorf("workers=%d: results[0].Error is empty", workers)
		}
	}
}

func TestRunSingleWorker(t *testing.T) {
	mem := &memorySink{}
	eng := raster.NewEngine(8, 2, raster.Indexed, mem)
	sc := movingRect(t, raster.Indexed)

	results, err := Run(context.Background(), Config{Frames: 4, Workers: 1}, sc, eng)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 4 || len(mem.frames) != 4 {
		t.Fatalf("got %d results, %d frames, want 4 and 4", len(results), len(mem.frames))
	}
	for i, pix := range mem.frames {
		if pix[8+i] != 1 {
			t.Errorf("frame %d: index at x=%d is %d, want 1", i, i, pix[8+i])
		}
		if i > 0 && pix[8+i-1] != 0 {
			t.Errorf("frame %d: stale pixel at x=%d", i, i-1)
		}
	}
}

func TestRunCanceled(t *testing.T) {
	mem := &memorySink{}
	eng := raster.NewEngine(8, 2, raster.Indexed, mem)
	sc := movingRect(t, raster.Indexed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Frames: 100, Workers: 2}, sc, eng)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(mem.frames) >= 100 {
		t.Errorf("sink got %d frames after cancel", len(mem.frames))
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{Frame: 0, Duration: 1500 * time.Microsecond},
		{Frame: 1, Duration: 2 * time.Millisecond, Error: "boom"},
	}
	if err := WriteManifest(path, Manifest{Output: "out.gif", Format: "gif", Width: 8, Height: 2}, results); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if got.Output != "out.gif" || len(got.Frames) != 2 {
		t.Fatalf("manifest = %+v", got)
	}
	if got.Frames[0].RenderMS != 1.5 {
		t.Errorf("Frames[0].RenderMS = %v, want 1.5", got.Frames[0].RenderMS)
	}
	if got.Frames[1].Error != "boom" {
		t.Errorf("Frames[1].Error = %q, want boom", got.Frames[1].Error)
	}
}
