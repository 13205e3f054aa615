package android

import (
	"regexp"
	"strconv"
	"strings"

	"Mansoor88-6/launcher-kit/internal/platform"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	componentRe   = regexp.MustCompile(`^\s*([A-Za-z][\w.]*)/([\w.$]+)\s*$`)
	packageNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)+$`)
	versionNameRe = regexp.MustCompile(`(?m)^\s*versionName=(.*)$`)
	pkgFlagsRe    = regexp.MustCompile(`(?m)^\s*pkgFlags=\[([^\]]*)\]`)
	batteryLineRe = regexp.MustCompile(`(?m)^\s*(level|scale|status):\s*(-?\d+)\s*$`)
)

// ValidPackageName reports whether s looks like an Android package name
func ValidPackageName(s string) bool {
	return packageNameRe.MatchString(s)
}

// parseComponents extracts pkg/class lines in output order. Short class
// names (".Main") are expanded against the package.
func parseComponents(output string) []platform.ActivityInfo {
	var out []platform.ActivityInfo
	for _, line := range strings.Split(output, "\n") {
		m := componentRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pkg, class := m[1], m[2]
		if strings.HasPrefix(class, ".") {
			class = pkg + class
		}
		out = append(out, platform.ActivityInfo{PackageName: pkg, Name: class})
	}
	return out
}

// parsePackageList reads `pm list packages` output
func parsePackageList(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "package:"); ok && name != "" {
			out = append(out, name)
		}
	}
	return out
}

// parsePackageInfo reads `dumpsys package <name>` output
func parsePackageInfo(packageName, output string) (platform.PackageInfo, bool) {
	if !strings.Contains(output, "Package ["+packageName+"]") {
		return platform.PackageInfo{}, false
	}
	info := platform.PackageInfo{PackageName: packageName}
	if m := versionNameRe.FindStringSubmatch(output); m != nil {
		info.VersionName = strings.TrimSpace(m[1])
		if info.VersionName == "null" {
			info.VersionName = ""
		}
	}
	if m := pkgFlagsRe.FindStringSubmatch(output); m != nil {
		for _, flag := range strings.Fields(m[1]) {
			if flag == "SYSTEM" {
				info.Flags |= platform.FlagSystem
			}
		}
	}
	if strings.Contains(output, "enabled=2") || strings.Contains(output, "enabled=3") {
		info.Flags |= platform.FlagDisabled
	}
	return info, true
}

// parseBattery reads `dumpsys battery` output
func parseBattery(output string) (*platform.BatteryInfo, bool) {
	info := &platform.BatteryInfo{Level: -1, Scale: -1, Status: platform.BatteryUnknown}
	found := false
	for _, m := range batteryLineRe.FindAllStringSubmatch(output, -1) {
		v, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		found = true
		switch m[1] {
		case "level":
			info.Level = v
		case "scale":
			info.Scale = v
		case "status":
			info.Status = batteryState(v)
		}
	}
	return info, found
}

// BatteryManager status codes
func batteryState(code int) platform.BatteryState {
	switch code {
	case 2:
		return platform.BatteryCharging
	case 3:
		return platform.BatteryDischarging
	case 4:
		return platform.BatteryNotCharging
	case 5:
		return platform.BatteryFull
	default:
		return platform.BatteryUnknown
	}
}

// badging is the part of `aapt dump badging` we use
type badging struct {
	Label string
	Icon  string
}

func parseBadging(output string) badging {
	var b badging
	iconsBySize := map[int]string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "application-label:"):
			if b.Label == "" {
				b.Label = unquote(strings.TrimPrefix(line, "application-label:"))
			}
		case strings.HasPrefix(line, "application-icon-"):
			sizeStr, path, ok := strings.Cut(strings.TrimPrefix(line, "application-icon-"), ":")
			if size, err := strconv.Atoi(sizeStr); ok && err == nil {
				iconsBySize[size] = unquote(path)
			}
		case strings.HasPrefix(line, "application:"):
			if b.Label == "" {
				b.Label = attr(line, "label")
			}
			if b.Icon == "" {
				b.Icon = attr(line, "icon")
			}
		}
	}

	best := -1
	for size, path := range iconsBySize {
		if size > best && isRaster(path) {
			best = size
			b.Icon = path
		}
	}
	return b
}

func isRaster(path string) bool {
	for _, ext := range []string{".png", ".webp", ".jpg", ".jpeg"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func attr(line, name string) string {
	idx := strings.Index(line, name+"='")
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(name)+2:]
	end := strings.Index(rest, "'")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
}

var skipLabelParts = map[string]bool{
	"com": true, "net": true, "org": true, "android": true,
	"google": true, "app": true, "apps": true,
}

// labelFromPackage guesses a display label from a package name, e.g.
// "com.example.notes" -> "Example Notes"
func labelFromPackage(packageName string) string {
	parts := strings.Split(packageName, ".")
	var meaningful []string
	for _, p := range parts {
		if !skipLabelParts[strings.ToLower(p)] && len(p) > 2 {
			meaningful = append(meaningful, strings.ReplaceAll(p, "_", " "))
		}
	}
	if len(meaningful) == 0 {
		meaningful = parts[len(parts)-1:]
	}
	return cases.Title(language.English).String(strings.Join(meaningful, " "))
}
