package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extRank orders formats when two files share a stem; lower wins.
// Lossless formats beat lossy ones.
var extRank = map[string]int{
	".bmp":  0,
	".png":  1,
	".tga":  2,
	".gif":  3,
	".webp": 4,
	".jpg":  5,
	".jpeg": 5,
}

// Index maps lowercase raster stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks assetDir (recursively) for supported raster files.
// A missing directory yields an empty index.
func BuildIndex(assetDir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if assetDir == "" {
		return idx
	}

	filepath.WalkDir(assetDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !supported(ext) {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || extRank[ext] < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Names may carry a directory prefix and any extension ("tex\\wall.jpg" → "wall").
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
