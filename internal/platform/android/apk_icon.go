package android

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

// maxIconBytes bounds an icon entry read out of an APK
const maxIconBytes = 4 << 20

// apkInfo is what aapt and the APK itself tell us about a package
type apkInfo struct {
	badging
	icon []byte
}

// apk pulls the package's base APK and reads its label and icon. Reads of
// the same package that overlap share one pull; nothing is kept between
// calls, so upgrades show up on the next read.
func (h *Host) apk(ctx context.Context, packageName string) (*apkInfo, error) {
	const op = "read apk"

	if h.cfg.AAPTPath == "" {
		return nil, platform.Errorf(platform.KindUnsupported, op, "aapt not configured")
	}
	if !ValidPackageName(packageName) {
		return nil, platform.NotFound(op, "package "+packageName)
	}

	v, err, _ := h.reads.Do(packageName, func() (interface{}, error) {
		return h.readAPK(ctx, packageName)
	})
	if err != nil {
		return nil, err
	}
	return v.(*apkInfo), nil
}

func (h *Host) readAPK(ctx context.Context, packageName string) (*apkInfo, error) {
	const op = "read apk"

	out, err := h.adb.Shell(ctx, "pm", "path", packageName)
	if err != nil {
		return nil, err
	}
	paths := parsePackageList(out)
	if len(paths) == 0 {
		return nil, platform.NotFound(op, "apk path of "+packageName)
	}

	workDir := h.cfg.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, platform.Wrap(platform.KindOf(err), op, err)
	}
	f, err := os.CreateTemp(workDir, packageName+"-*.apk")
	if err != nil {
		return nil, platform.Wrap(platform.KindOf(err), op, err)
	}
	local := f.Name()
	f.Close()
	defer os.Remove(local)

	if err := h.adb.Pull(ctx, paths[0], local); err != nil {
		return nil, err
	}

	raw, err := exec.CommandContext(ctx, h.cfg.AAPTPath, "dump", "badging", local).CombinedOutput()
	if err != nil {
		return nil, platform.Wrap(platform.KindUnknown, op, fmt.Errorf("aapt dump badging: %w: %s", err, strings.TrimSpace(string(raw))))
	}

	info := &apkInfo{badging: parseBadging(string(raw))}
	if info.Icon != "" {
		data, err := readZipEntry(local, info.Icon)
		if err != nil {
			h.logger.Debug("Icon entry not readable",
				zap.String("package_name", packageName),
				zap.String("entry", info.Icon),
				zap.Error(err),
			)
		} else {
			info.icon = data
		}
	}
	return info, nil
}

func readZipEntry(archive, name string) ([]byte, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		if f.UncompressedSize64 > maxIconBytes {
			return nil, platform.Errorf(platform.KindResourceExhausted, "read apk entry", "%s is %d bytes", name, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxIconBytes))
	}
	return nil, platform.NotFound("read apk entry", name)
}
