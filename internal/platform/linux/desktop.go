package linux

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

const desktopGroup = "[Desktop Entry]"

// desktopEntry is the subset of a .desktop file the host cares about
type desktopEntry struct {
	ID        string // desktop file id without the .desktop suffix
	Path      string
	Type      string
	Name      string
	Icon      string
	Exec      string
	Version   string
	NoDisplay bool
	Hidden    bool
	System    bool
}

// launchable reports whether the entry belongs in a launcher
func (e desktopEntry) launchable() bool {
	return !e.NoDisplay
}

// parseDesktopEntry reads the [Desktop Entry] group of a desktop file.
// Other groups (actions) are ignored.
func parseDesktopEntry(r io.Reader) (desktopEntry, error) {
	var e desktopEntry
	inGroup := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inGroup = line == desktopGroup
			continue
		}
		if !inGroup {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Type":
			e.Type = value
		case "Name":
			e.Name = value
		case "Icon":
			e.Icon = value
		case "Exec":
			e.Exec = value
		case "X-AppImage-Version", "X-Version":
			if e.Version == "" {
				e.Version = value
			}
		case "NoDisplay":
			e.NoDisplay = value == "true"
		case "Hidden":
			e.Hidden = value == "true"
		}
	}
	return e, scanner.Err()
}

// desktopID turns a path relative to an applications dir into its desktop
// file id: "kde/konsole.desktop" becomes "kde-konsole"
func desktopID(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".desktop")
	return strings.ReplaceAll(rel, "/", "-")
}

// scanDesktopEntries indexes every application entry under the data dirs.
// The first data dir defining an id wins, hidden entries shadow later ones
// and the result is ordered by data dir then id.
func scanDesktopEntries(ctx context.Context, dataDirs []string) ([]desktopEntry, error) {
	seen := make(map[string]bool)
	var out []desktopEntry

	for i, dir := range dataDirs {
		entries, err := scanApplicationsDir(ctx, filepath.Join(dir, "applications"), i > 0)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if e.Hidden || e.Type != "Application" {
				continue
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func scanApplicationsDir(ctx context.Context, root string, system bool) ([]desktopEntry, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		entries []desktopEntry
	)
	conf := fastwalk.Config{Follow: true}

	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match("**/*.desktop", filepath.ToSlash(rel)); !ok {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return nil
		}
		e, err := parseDesktopEntry(f)
		f.Close()
		if err != nil {
			return nil
		}
		e.ID = desktopID(rel)
		e.Path = p
		e.System = system

		mu.Lock()
		entries = append(entries, e)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
