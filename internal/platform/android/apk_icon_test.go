package android

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pullingRunner serves one APK for every pull
type pullingRunner struct {
	scriptedRunner
	apk []byte
}

func (r *pullingRunner) Pull(_ context.Context, _, local string) error {
	return os.WriteFile(local, r.apk, 0o644)
}

func buildAPK(t *testing.T) []byte {
	t.Helper()
	var icon bytes.Buffer
	require.NoError(t, png.Encode(&icon, image.NewNRGBA(image.Rect(0, 0, 48, 48))))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("res/icon.png")
	require.NoError(t, err)
	_, err = w.Write(icon.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// fakeAAPT writes an aapt stand-in that fails unless the pulled APK
// exists and prints the badging stored at badgingPath
func fakeAAPT(t *testing.T, dir, badgingPath string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script aapt")
	}
	script := fmt.Sprintf("#!/bin/sh\n[ -f \"$3\" ] || exit 1\nsleep 0.05\n[ -f \"$3\" ] || exit 1\ncat %q\n", badgingPath)
	path := filepath.Join(dir, "aapt")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeBadging(t *testing.T, path, label string) {
	t.Helper()
	content := fmt.Sprintf("package: name='com.example.notes'\napplication: label='%s' icon='res/icon.png'\n", label)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newAPKHost(t *testing.T, workDir string) (*Host, string) {
	t.Helper()
	dir := t.TempDir()
	badging := filepath.Join(dir, "badging.txt")
	writeBadging(t, badging, "Notes")

	r := &pullingRunner{
		scriptedRunner: scriptedRunner{outputs: map[string]string{
			"pm path com.example.notes": "package:/data/app/com.example.notes/base.apk\n",
		}},
		apk: buildAPK(t),
	}
	h := New(r, Config{AAPTPath: fakeAAPT(t, dir, badging), WorkDir: workDir}, zap.NewNop())
	return h, badging
}

func TestHost_LabelAndIconFromAPK(t *testing.T) {
	workDir := t.TempDir()
	h, _ := newAPKHost(t, workDir)
	ctx := context.Background()
	activity := platform.ActivityInfo{PackageName: "com.example.notes"}

	assert.Equal(t, "Notes", h.LoadLabel(ctx, activity))

	icon, err := h.LoadIcon(ctx, activity)
	require.NoError(t, err)
	w, hgt := icon.IntrinsicSize()
	assert.Equal(t, 48, w)
	assert.Equal(t, 48, hgt)

	// pulled copies are removed
	left, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestHost_APKReadAfterUpgrade(t *testing.T) {
	h, badging := newAPKHost(t, t.TempDir())
	ctx := context.Background()
	activity := platform.ActivityInfo{PackageName: "com.example.notes"}

	assert.Equal(t, "Notes", h.LoadLabel(ctx, activity))

	// same package id, new APK contents
	writeBadging(t, badging, "Notes Pro")
	assert.Equal(t, "Notes Pro", h.LoadLabel(ctx, activity))
}

func TestHost_ConcurrentAPKReads(t *testing.T) {
	workDir := t.TempDir()

	// several hosts share the work dir, each read from several goroutines
	var hosts []*Host
	for i := 0; i < 4; i++ {
		h, _ := newAPKHost(t, workDir)
		hosts = append(hosts, h)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []error
	)
	for _, h := range hosts {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(h *Host) {
				defer wg.Done()
				info, err := h.apk(context.Background(), "com.example.notes")
				if err == nil && info.Label != "Notes" {
					err = fmt.Errorf("label %q", info.Label)
				}
				if err != nil {
					mu.Lock()
					failed = append(failed, err)
					mu.Unlock()
				}
			}(h)
		}
	}
	wg.Wait()

	assert.Empty(t, failed)
	left, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}
