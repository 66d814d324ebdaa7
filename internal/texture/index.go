package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase image stems to filesystem paths. TGA files take
// priority over JPEG for the same stem (alpha channel).
type Index struct {
	entries map[string]string // stem.lower() -> full path
}

var imageExts = map[string]bool{
	".png":  true,
	".tga":  true,
	".jpg":  true,
	".jpeg": true,
}

// BuildIndex scans dir recursively for decoded overlay images.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !imageExts[ext] {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists {
			idx.entries[stem] = path
		} else if preferred(ext, strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// preferred ranks alpha-capable formats above JPEG.
func preferred(ext, existing string) bool {
	rank := func(e string) int {
		switch e {
		case ".png":
			return 2
		case ".tga":
			return 1
		default:
			return 0
		}
	}
	return rank(ext) > rank(existing)
}

// ResolvePath returns the filesystem path for an image name, or ("", false).
// Path prefixes and extensions in the name are ignored; matching is by
// lowercase stem, the same convention the game data uses.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
