package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"scanline-renderer/internal/batch"
	"scanline-renderer/internal/config"
	"scanline-renderer/internal/logging"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/sink"
	"scanline-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Path to the scene JSON file")
	output := flag.String("output", "", "Output file; a %d verb in a .bmp path writes one file per frame")
	format := flag.String("format", "", "gif, gif-dither, bmp8, bmp24 or webp (default: from -output)")
	frames := flag.Int("frames", 0, "Number of frames (default: from the scene)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	size := flag.String("size", "", "Output size WxH (default: scene size)")
	delay := flag.Int("delay", 0, "Frame delay in 1/100 s (default: from the scene)")
	supersample := flag.Int("supersample", 0, "Render ARGB frames at N× and filter down (default: 1)")
	verbose := flag.Bool("v", false, "Log renderer diagnostics to stderr")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		Scene:       *sceneFile,
		Output:      *output,
		Format:      *format,
		Size:        *size,
		Frames:      *frames,
		Delay:       *delay,
		Supersample: *supersample,
		Workers:     *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Scene == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene. Use -scene flag or config.json.")
		os.Exit(1)
	}

	sc, err := scene.Load(cfg.Scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	applySceneDefaults(&cfg, sc)

	outFormat, _ := sink.ParseFormat(cfg.Format)
	mode := raster.ARGB
	if outFormat.Indexed() {
		mode = raster.Indexed
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.AssetDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	if err := sc.Prepare(mode, texCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing scene: %v\n", err)
		os.Exit(1)
	}

	out := sink.New(outFormat, cfg.Width, cfg.Height, cfg.SinkOptions())
	eng := raster.NewEngine(cfg.Width, cfg.Height, mode, out)
	if dir := filepath.Dir(cfg.Output); dir != "" {
		os.MkdirAll(dir, 0755)
	}
	if err := eng.Create(cfg.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, c := range sc.PaletteColors() {
		if _, err := eng.AddColor(c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := eng.InitEnd(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("Scanline renderer → %s\n", outFormat)
	fmt.Printf("Scene: %s (%d objects)\n", cfg.Scene, len(sc.Objects))
	fmt.Printf("Frames: %d at %dx%d, Supersample: %d, Workers: %d\n",
		cfg.Frames, cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.Output)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		Frames:      cfg.Frames,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		batchCfg.Progress = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, runErr := batch.Run(ctx, batchCfg, sc, eng)
	if err := eng.Finish(); err != nil && runErr == nil {
		runErr = err
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	fmt.Printf("Rendered: %d/%d\n", eng.Frames(), cfg.Frames)

	// Write manifest
	manifest := batch.Manifest{
		Scene:       cfg.Scene,
		Output:      cfg.Output,
		Format:      outFormat.String(),
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Elapsed:     float64(elapsed.Microseconds()) / 1000,
	}
	if err := batch.WriteManifest(cfg.Manifest, manifest, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", cfg.Manifest)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		stop()
		os.Exit(1)
	}
}

// applySceneDefaults fills settings the config left at zero from the scene.
func applySceneDefaults(cfg *config.Config, sc *scene.Scene) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = sc.Width, sc.Height
	}
	if cfg.Frames <= 0 {
		cfg.Frames = max(sc.Frames, 1)
	}
	if cfg.Delay <= 0 {
		cfg.Delay = sc.Delay
	}
}
