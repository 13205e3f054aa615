package appdetail

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"Mansoor88-6/launcher-kit/internal/platform"
)

// IconCache persists rasterized icons as <dir>/icons/<identifier>.png
type IconCache struct {
	dir string
}

// NewIconCache creates a cache rooted at cacheDir
func NewIconCache(cacheDir string) *IconCache {
	return &IconCache{dir: filepath.Join(cacheDir, "icons")}
}

// Dir returns the icons directory
func (c *IconCache) Dir() string {
	return c.dir
}

// Path returns the file an identifier's icon is stored in
func (c *IconCache) Path(id string) (string, error) {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, id)
	if name == "" || name == "." || name == ".." {
		return "", platform.Errorf(platform.KindUnknown, "icon path", "invalid identifier %q", id)
	}
	return filepath.Join(c.dir, name+".png"), nil
}

// Write encodes img as PNG and replaces the identifier's icon file.
// Concurrent writers for the same identifier are last-write-wins.
func (c *IconCache) Write(id string, img image.Image) (string, error) {
	const op = "write icon"

	path, err := c.Path(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", platform.Wrap(platform.KindOf(err), op, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".icon-*.png")
	if err != nil {
		return "", platform.Wrap(platform.KindOf(err), op, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", platform.Wrap(platform.KindTransientIO, op, fmt.Errorf("encode png: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return "", platform.Wrap(platform.KindTransientIO, op, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", platform.Wrap(platform.KindOf(err), op, err)
	}
	return path, nil
}
