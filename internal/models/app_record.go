package models

import "strings"

// AppRecord is the wire shape of one installed application.
// Optional fields are pointers so that they serialize as explicit nulls.
type AppRecord struct {
	Label       string  `json:"label"`
	PackageName string  `json:"packageName"`
	Icon        *string `json:"icon"`
	Version     *string `json:"version"`
	AccentColor *string `json:"accentColor"`
}

const (
	// IconScheme prefixes every icon reference
	IconScheme = "file://"

	// UnknownVersion is reported when version metadata cannot be read
	UnknownVersion = "Unknown"

	// DefaultAccentColor is reported when no dominant swatch exists
	DefaultAccentColor = "#000000"
)

// IconPath returns the filesystem path behind the icon reference, if any.
func (r AppRecord) IconPath() (string, bool) {
	if r.Icon == nil {
		return "", false
	}
	return strings.TrimPrefix(*r.Icon, IconScheme), true
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
