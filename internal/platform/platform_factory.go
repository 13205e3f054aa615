package platform

import "runtime"

// Kinds of hosts understood by the factory
const (
	HostAuto    = "auto"
	HostAndroid = "android"
	HostLinux   = "linux"
)

// ResolveHost picks the host implementation for the configured kind.
// "auto" prefers an attached Android device when a serial is configured,
// then the local desktop on Linux.
func ResolveHost(kind string, adbSerial string) (string, error) {
	switch kind {
	case HostAndroid, HostLinux:
		return kind, nil
	case "", HostAuto:
		if adbSerial != "" {
			return HostAndroid, nil
		}
		if runtime.GOOS == "linux" {
			return HostLinux, nil
		}
		return "", &UnsupportedPlatformError{OS: runtime.GOOS}
	default:
		return "", &UnsupportedPlatformError{OS: kind}
	}
}

// UnsupportedPlatformError represents an error for unsupported platforms
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return "unsupported platform: " + e.OS
}
