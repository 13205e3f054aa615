package linux

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/bmatcuk/doublestar/v4"
)

var rasterExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".webp": true}

var pixmapExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp"}

// findIcon resolves an Icon= value to a raster file. Absolute paths are used
// as is; theme names are looked up in hicolor (largest size first) and then
// in pixmaps. Vector-only icons are reported as not found.
func findIcon(dataDirs []string, icon string) (string, error) {
	const op = "find icon"

	if icon == "" {
		return "", platform.NotFound(op, "icon")
	}
	if filepath.IsAbs(icon) {
		if !rasterExts[strings.ToLower(filepath.Ext(icon))] {
			return "", platform.NotFound(op, "raster icon "+icon)
		}
		if _, err := os.Stat(icon); err != nil {
			return "", platform.Wrap(platform.KindOf(err), op, err)
		}
		return icon, nil
	}

	name := doublestar.EscapeMeta(icon)
	best, bestSize := "", -1
	for _, dir := range dataDirs {
		matches, err := doublestar.FilepathGlob(filepath.Join(doublestar.EscapeMeta(dir), "icons", "hicolor", "*", "apps", name+".png"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if size := themeSize(m); size > bestSize {
				best, bestSize = m, size
			}
		}
	}
	if best != "" {
		return best, nil
	}

	for _, dir := range dataDirs {
		for _, ext := range pixmapExts {
			p := filepath.Join(dir, "pixmaps", icon+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", platform.NotFound(op, "raster icon "+icon)
}

// themeSize reads the size out of .../hicolor/<W>x<H>/apps/<name>.png
func themeSize(path string) int {
	sizeDir := filepath.Base(filepath.Dir(filepath.Dir(path)))
	w, _, ok := strings.Cut(sizeDir, "x")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0
	}
	return n
}
