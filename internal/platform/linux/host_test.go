package linux

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingCommander struct {
	mu      sync.Mutex
	outputs map[string]string
	started []string
}

func (c *recordingCommander) Output(_ context.Context, name string, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputs[strings.Join(append([]string{name}, args...), " ")], nil
}

func (c *recordingCommander) Start(_ context.Context, name string, args ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = append(c.started, strings.Join(append([]string{name}, args...), " "))
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func entryFile(name string, extra ...string) string {
	lines := append([]string{"[Desktop Entry]", "Type=Application", "Name=" + name, "Exec=" + strings.ToLower(name)}, extra...)
	return strings.Join(lines, "\n") + "\n"
}

// newTree builds a user data dir and a system data dir
func newTree(t *testing.T) (home, system string) {
	root := t.TempDir()
	home = filepath.Join(root, "home")
	system = filepath.Join(root, "usr")

	writeFile(t, filepath.Join(system, "applications", "org.example.Notes.desktop"),
		entryFile("Notes", "Icon=notes", "X-AppImage-Version=2.1"))
	writeFile(t, filepath.Join(system, "applications", "kde", "konsole.desktop"),
		entryFile("Konsole"))
	writeFile(t, filepath.Join(system, "applications", "daemon.desktop"),
		entryFile("Daemon", "NoDisplay=true"))
	writeFile(t, filepath.Join(system, "applications", "site.desktop"),
		"[Desktop Entry]\nType=Link\nName=Site\nURL=https://example.com\n")
	writeFile(t, filepath.Join(system, "applications", "removed.desktop"),
		entryFile("Removed"))

	// user overrides
	writeFile(t, filepath.Join(home, "applications", "org.example.Notes.desktop"),
		entryFile("My Notes", "Icon=notes", "X-Version=3.0"))
	writeFile(t, filepath.Join(home, "applications", "removed.desktop"),
		entryFile("Removed", "Hidden=true"))
	writeFile(t, filepath.Join(home, "applications", "tool.desktop"),
		entryFile("Tool", "Icon=tool"))

	writePNG(t, filepath.Join(system, "icons", "hicolor", "16x16", "apps", "notes.png"), 16)
	writePNG(t, filepath.Join(system, "icons", "hicolor", "64x64", "apps", "notes.png"), 64)
	writeFile(t, filepath.Join(system, "icons", "hicolor", "scalable", "apps", "tool.svg"), "<svg/>")
	return home, system
}

func TestParseDesktopEntry(t *testing.T) {
	e, err := parseDesktopEntry(strings.NewReader(`# comment
[Desktop Entry]
Type=Application
Name=Files
Name[de]=Dateien
Icon=org.gnome.Nautilus
Exec=nautilus --new-window %U
NoDisplay=false

[Desktop Action new-window]
Name=New Window
Exec=nautilus --new-window
`))
	require.NoError(t, err)
	assert.Equal(t, "Application", e.Type)
	assert.Equal(t, "Files", e.Name)
	assert.Equal(t, "org.gnome.Nautilus", e.Icon)
	assert.Equal(t, "nautilus --new-window %U", e.Exec)
	assert.False(t, e.NoDisplay)
}

func TestDesktopID(t *testing.T) {
	assert.Equal(t, "kde-konsole", desktopID("kde/konsole.desktop"))
	assert.Equal(t, "org.gnome.Calculator", desktopID("org.gnome.Calculator.desktop"))
}

func TestHost_QueryLauncherActivities(t *testing.T) {
	home, system := newTree(t)
	h := New(Config{DataDirs: []string{home, system}}, &recordingCommander{}, zap.NewNop())

	activities, err := h.QueryLauncherActivities(context.Background())
	require.NoError(t, err)

	var ids, labels []string
	for _, a := range activities {
		ids = append(ids, a.PackageName)
		labels = append(labels, h.LoadLabel(context.Background(), a))
	}
	// user dir first, hidden and NoDisplay and non applications dropped
	assert.Equal(t, []string{"org.example.Notes", "tool", "kde-konsole"}, ids)
	assert.Equal(t, []string{"My Notes", "Tool", "Konsole"}, labels)

	// package metadata travels with each activity
	require.NotNil(t, activities[0].Package)
	assert.Equal(t, "3.0", activities[0].Package.VersionName)
	assert.False(t, activities[0].Package.IsSystem())
	require.NotNil(t, activities[2].Package)
	assert.True(t, activities[2].Package.IsSystem())
}

func TestHost_PackageInfo(t *testing.T) {
	home, system := newTree(t)
	h := New(Config{DataDirs: []string{home, system}}, &recordingCommander{}, zap.NewNop())
	ctx := context.Background()

	info, err := h.GetPackageInfo(ctx, "org.example.Notes")
	require.NoError(t, err)
	assert.Equal(t, "3.0", info.VersionName)
	assert.False(t, info.IsSystem())

	info, err = h.GetPackageInfo(ctx, "kde-konsole")
	require.NoError(t, err)
	assert.True(t, info.IsSystem())
	assert.Empty(t, info.VersionName)

	_, err = h.GetPackageInfo(ctx, "removed")
	assert.True(t, platform.IsNotFound(err))

	pkgs, err := h.GetInstalledPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, pkgs, 4) // notes, tool, daemon, konsole

	_, err = h.ResolveLaunchActivity(ctx, "daemon")
	assert.True(t, platform.IsNotFound(err))
}

func TestHost_LoadIcon(t *testing.T) {
	home, system := newTree(t)
	h := New(Config{DataDirs: []string{home, system}}, &recordingCommander{}, zap.NewNop())
	ctx := context.Background()

	a, err := h.ResolveLaunchActivity(ctx, "org.example.Notes")
	require.NoError(t, err)
	icon, err := h.LoadIcon(ctx, a)
	require.NoError(t, err)
	w, hgt := icon.IntrinsicSize()
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, hgt)

	// only an SVG exists
	a, err = h.ResolveLaunchActivity(ctx, "tool")
	require.NoError(t, err)
	_, err = h.LoadIcon(ctx, a)
	assert.True(t, platform.IsNotFound(err))
}

func TestHost_Snapshot(t *testing.T) {
	home, system := newTree(t)
	h := New(Config{DataDirs: []string{home, system}}, &recordingCommander{}, zap.NewNop())

	set, err := h.snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, set, "daemon")
	assert.NotContains(t, set, "removed")
	assert.NotContains(t, set, "site")
}

func TestHost_System(t *testing.T) {
	home, system := newTree(t)
	cmd := &recordingCommander{outputs: map[string]string{
		"xdg-mime query default inode/directory": "org.gnome.Nautilus.desktop\n",
	}}
	h := New(Config{
		DataDirs:        []string{home, system},
		SettingsCommand: []string{"gnome-control-center"},
		AlarmApp:        "tool",
	}, cmd, zap.NewNop())
	ctx := context.Background()

	launcher, err := h.DefaultLauncher(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org.gnome.Nautilus", launcher)

	require.NoError(t, h.LaunchPackage(ctx, "kde-konsole"))
	require.NoError(t, h.StartActivity(ctx, platform.Intent{Action: platform.ActionView, Data: "https://example.com"}))
	require.NoError(t, h.OpenSettings(ctx))
	require.NoError(t, h.OpenHomeSettings(ctx))
	require.NoError(t, h.OpenAlarms(ctx))

	assert.Equal(t, []string{
		"gtk-launch kde-konsole",
		"xdg-open https://example.com",
		"gnome-control-center",
		"gnome-control-center",
		"gtk-launch tool",
	}, cmd.started)

	assert.True(t, platform.IsNotFound(h.LaunchPackage(ctx, "missing")))
	assert.Equal(t, platform.KindUnsupported, platform.KindOf(h.StartActivity(ctx, platform.Intent{Action: "x"})))
}

func TestHost_OpenAlarmsWithoutApp(t *testing.T) {
	h := New(Config{DataDirs: []string{t.TempDir()}}, &recordingCommander{}, zap.NewNop())
	assert.True(t, platform.IsNotFound(h.OpenAlarms(context.Background())))
}

func TestHost_Battery(t *testing.T) {
	root := t.TempDir()
	h := New(Config{DataDirs: []string{t.TempDir()}, SysRoot: root}, &recordingCommander{}, zap.NewNop())

	_, err := h.Battery(context.Background())
	assert.True(t, platform.IsNotFound(err))

	writeFile(t, filepath.Join(root, "sys", "class", "power_supply", "BAT0", "capacity"), "87\n")
	writeFile(t, filepath.Join(root, "sys", "class", "power_supply", "BAT0", "status"), "Charging\n")

	info, err := h.Battery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 87, info.Level)
	assert.Equal(t, 100, info.Scale)
	assert.Equal(t, platform.BatteryCharging, info.Status)
}

func TestHost_DeviceID(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "etc", "machine-id"), "abc123\n")
	h := New(Config{DataDirs: []string{t.TempDir()}, SysRoot: root}, &recordingCommander{}, zap.NewNop())

	id, err := h.DeviceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}
