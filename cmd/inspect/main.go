package main

import (
	"flag"
	"fmt"
	"os"

	"scanline-renderer/internal/picture"
	"scanline-renderer/internal/texture"
)

func main() {
	assetDir := flag.String("assets", "", "Resolve names through an asset directory instead of opening paths")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-assets dir] image...")
		os.Exit(2)
	}

	var cache *texture.Cache
	if *assetDir != "" {
		idx := texture.BuildIndex(*assetDir)
		cache = texture.NewCache(idx)
		fmt.Printf("Textures: %d indexed\n", idx.Len())
	}

	failed := false
	for _, name := range flag.Args() {
		if cache != nil {
			pic := cache.Resolve(name)
			if pic == nil {
				fmt.Printf("%s: not found\n", name)
				failed = true
				continue
			}
			report(name, "", pic)
			continue
		}

		var src texture.ImageSource
		if err := src.Load(name); err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed = true
			continue
		}
		report(name, src.Format(), texture.FromSource(&src))
	}
	if failed {
		os.Exit(1)
	}
}

func report(name, format string, pic *picture.Picture) {
	if format != "" {
		fmt.Printf("%s: %s %dx%d\n", name, format, pic.Width, pic.Height)
	} else {
		fmt.Printf("%s: %dx%d\n", name, pic.Width, pic.Height)
	}
	if len(pic.Pix) == 0 {
		return
	}

	// Check alpha values
	var minA, maxA uint8 = 255, 0
	sumA, opaque := 0, 0
	for _, c := range pic.Pix {
		a := uint8(c >> 24)
		sumA += int(a)
		minA = min(minA, a)
		maxA = max(maxA, a)
		if a == 255 {
			opaque++
		}
	}
	total := len(pic.Pix)
	fmt.Printf("  Alpha: min=%d max=%d avg=%.0f opaque=%d/%d (%.0f%%)\n",
		minA, maxA, float64(sumA)/float64(total), opaque, total, 100*float64(opaque)/float64(total))

	// Corners and center
	w, h := pic.Width, pic.Height
	for _, p := range [][2]int{{0, 0}, {w - 1, 0}, {w / 2, h / 2}, {0, h - 1}, {w - 1, h - 1}} {
		fmt.Printf("  Pixel(%d,%d): 0x%08x\n", p[0], p[1], pic.GetPixel(p[0], p[1]))
	}
}
