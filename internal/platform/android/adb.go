// Package android reflects an Android device attached over adb.
package android

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

// Runner executes adb commands
type Runner interface {
	// Shell runs a command in the device shell and returns its stdout
	Shell(ctx context.Context, args ...string) (string, error)

	// Pull copies a file from the device
	Pull(ctx context.Context, remote, local string) error
}

// ADB runs the adb binary against one device
type ADB struct {
	path    string
	serial  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewADB creates a runner. An empty serial lets adb pick the only device.
func NewADB(path, serial string, timeout time.Duration, logger *zap.Logger) *ADB {
	if path == "" {
		path = "adb"
	}
	return &ADB{path: path, serial: serial, timeout: timeout, logger: logger}
}

func (a *ADB) Shell(ctx context.Context, args ...string) (string, error) {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return a.run(ctx, "shell", strings.Join(quoted, " "))
}

func (a *ADB) Pull(ctx context.Context, remote, local string) error {
	_, err := a.run(ctx, "pull", remote, local)
	return err
}

func (a *ADB) run(ctx context.Context, args ...string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	full := args
	if a.serial != "" {
		full = append([]string{"-s", a.serial}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, full...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	a.logger.Debug("adb command finished",
		zap.Strings("args", full),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)

	out := stdout.String()
	if err != nil {
		return out, classify(ctx, "adb "+args[0], err, stderr.String()+out)
	}
	// adb shell exits 0 for most failures, the shell output tells
	if kind, ok := failureKind(out); ok {
		return out, platform.Errorf(kind, "adb "+args[0], "%s", strings.TrimSpace(out))
	}
	return out, nil
}

func classify(ctx context.Context, op string, err error, output string) error {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return platform.Wrap(platform.KindUnsupported, op, err)
	case ctx.Err() != nil:
		return platform.Wrap(platform.KindTransientIO, op, ctx.Err())
	}
	if kind, ok := failureKind(output); ok {
		return platform.Wrap(kind, op, fmt.Errorf("%w: %s", err, strings.TrimSpace(output)))
	}
	return platform.Wrap(platform.KindTransientIO, op, fmt.Errorf("%w: %s", err, strings.TrimSpace(output)))
}

var failureMarkers = []struct {
	marker string
	kind   platform.Kind
}{
	{"SecurityException", platform.KindPermissionDenied},
	{"Permission denial", platform.KindPermissionDenied},
	{"Permission denied", platform.KindPermissionDenied},
	{"no devices/emulators found", platform.KindTransientIO},
	{"device offline", platform.KindTransientIO},
	{"device unauthorized", platform.KindPermissionDenied},
	{"Unable to find package", platform.KindNotFound},
	{"No activity found", platform.KindNotFound},
	{"Error type 3", platform.KindNotFound},
	{"unable to resolve Intent", platform.KindNotFound},
	{"No activities found to run", platform.KindNotFound},
	{"OutOfMemoryError", platform.KindResourceExhausted},
}

func failureKind(output string) (platform.Kind, bool) {
	for _, m := range failureMarkers {
		if strings.Contains(output, m.marker) {
			return m.kind, true
		}
	}
	return "", false
}

// shellQuote quotes s for the device shell unless it is plainly safe
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=,@%+", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
