package platform

import (
	"context"
	"errors"
	"net/url"
)

// Broadcast actions
const (
	ActionPackageAdded   = "android.intent.action.PACKAGE_ADDED"
	ActionPackageRemoved = "android.intent.action.PACKAGE_REMOVED"
)

// SchemePackage is the data scheme of package broadcasts
const SchemePackage = "package"

// ErrReceiverNotRegistered is returned when unregistering an unknown receiver
var ErrReceiverNotRegistered = errors.New("receiver not registered")

// IntentFilter selects which broadcasts a receiver gets
type IntentFilter struct {
	Action     string
	DataScheme string
}

// Matches reports whether a broadcast passes the filter
func (f IntentFilter) Matches(b Broadcast) bool {
	if f.Action != b.Action {
		return false
	}
	if f.DataScheme == "" {
		return true
	}
	u, err := url.Parse(b.Data)
	if err != nil {
		return false
	}
	return u.Scheme == f.DataScheme
}

// Broadcast is a single OS broadcast, e.g. {PACKAGE_ADDED, "package:com.example"}
type Broadcast struct {
	Action string
	Data   string
}

// SchemeSpecificPart returns the part of the data URI after the scheme
func (b Broadcast) SchemeSpecificPart() string {
	u, err := url.Parse(b.Data)
	if err != nil {
		return ""
	}
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Host + u.Path
}

// PackageBroadcast builds a package broadcast for the given identifier
func PackageBroadcast(action, packageName string) Broadcast {
	return Broadcast{Action: action, Data: SchemePackage + ":" + packageName}
}

// Receiver handles broadcasts. Implementations must be comparable
// (pointer receivers) so that they can be unregistered.
type Receiver interface {
	OnReceive(ctx context.Context, b Broadcast)
}
