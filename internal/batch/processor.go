// Package batch renders every frame of a scene on a worker pool and hands
// the frames to an Engine in order.
package batch

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"scanline-renderer/internal/logging"
	"scanline-renderer/internal/postprocess"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
)

// Config holds the settings for one batch run.
type Config struct {
	Frames int
	// Supersample renders ARGB frames at this multiple of the output size
	// and filters them down. Indexed frames are never supersampled.
	Supersample int
	Workers     int
	// Progress receives a rate line every couple of seconds. Nil disables it.
	Progress io.Writer
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    int
	Duration time.Duration
	Error    string
}

type rendered struct {
	frame int
	pix   []byte
	took  time.Duration
	err   error
}

// Run renders cfg.Frames frames of sc and appends them to eng in frame
// order. The scene must already be prepared for eng's mode. The first
// render or append error, or cancellation of ctx, stops the run; frames
// after that point are not appended.
func Run(ctx context.Context, cfg Config, sc *scene.Scene, eng *raster.Engine) ([]Result, error) {
	total := cfg.Frames
	workers := max(cfg.Workers, 1)
	ss := max(cfg.Supersample, 1)
	if eng.Mode != raster.ARGB {
		ss = 1
	}

	results := make([]Result, total)
	if workers == 1 && ss == 1 {
		return runSequential(ctx, total, sc, eng, results)
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	defer close(done)
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// Send work
	jobs := make(chan int, workers*2)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	// Worker pool
	out := make(chan rendered, workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			fb := raster.NewFrameBuffer(eng.Width*ss, eng.Height*ss, eng.Mode)
			for frame := range jobs {
				r := renderFrame(sc, fb, frame, eng.Width, eng.Height)
				out <- r
				processed.Add(1)
				if r.err != nil {
					return fmt.Errorf("batch: frame %d: %w", frame, r.err)
				}
			}
			return nil
		})
	}

	var renderErr error
	go func() {
		renderErr = g.Wait()
		close(out)
	}()

	// Frames arrive in any order; append them in sequence.
	pending := make(map[int]rendered)
	next := 0
	var appendErr error
	for r := range out {
		results[r.frame] = Result{Frame: r.frame, Duration: r.took}
		if r.err != nil {
			results[r.frame].Error = r.err.Error()
			continue
		}
		if appendErr != nil {
			continue
		}
		pending[r.frame] = r
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := eng.AppendPixels(p.pix); err != nil {
				appendErr = fmt.Errorf("batch: %w", err)
				cancel()
				break
			}
			next++
		}
	}

	logging.Logger().Debug("batch finished", "frames", next, "elapsed", time.Since(start))
	switch {
	case appendErr != nil:
		return results, appendErr
	case renderErr != nil:
		return results, renderErr
	case next < total:
		return results, fmt.Errorf("batch: stopped after %d of %d frames: %w", next, total, context.Cause(ctx))
	}
	return results, nil
}

// runSequential renders straight into the engine's own framebuffer.
func runSequential(ctx context.Context, total int, sc *scene.Scene, eng *raster.Engine, results []Result) ([]Result, error) {
	start := time.Now()
	for frame := 0; frame < total; frame++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch: stopped after %d of %d frames: %w", frame, total, context.Cause(ctx))
		}
		began := time.Now()
		err := sc.Render(eng.FrameBuffer, frame)
		results[frame] = Result{Frame: frame, Duration: time.Since(began)}
		if err != nil {
			results[frame].Error = err.Error()
			return results, fmt.Errorf("batch: frame %d: %w", frame, err)
		}
		if err := eng.WriteFrame(); err != nil {
			return results, fmt.Errorf("batch: %w", err)
		}
	}
	logging.Logger().Debug("batch finished", "frames", total, "elapsed", time.Since(start))
	return results, nil
}

// renderFrame draws one frame into fb and returns it at the output size in
// the engine's pixel layout.
func renderFrame(sc *scene.Scene, fb *raster.FrameBuffer, frame, w, h int) rendered {
	began := time.Now()
	if err := sc.Render(fb, frame); err != nil {
		return rendered{frame: frame, err: err, took: time.Since(began)}
	}

	var pix []byte
	if fb.Width == w && fb.Height == h {
		pix = slices.Clone(fb.Pix)
	} else {
		// The framebuffer holds displayed colors; cleared pixels are black.
		pic := fb.ToPicture(nil)
		pic.UpdateAlpha(0xff)
		pic = postprocess.Downsample(pic, w, h)
		pix = raster.EncodeARGB(pic.Pix)
	}
	took := time.Since(began)
	logging.Logger().Debug("frame rendered", "frame", frame, "took", took)
	return rendered{frame: frame, pix: pix, took: took}
}
