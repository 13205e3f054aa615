package bridge

import "errors"

// ErrNotLinked is returned when the facade is used without a native module
var ErrNotLinked = errors.New("launcher-kit native module is not linked: start the native side or pass a remote bridge")

// Handle is an optional Module
type Handle struct {
	module Module
}

// Linked wraps an available module
func Linked(m Module) Handle {
	return Handle{module: m}
}

// Unlinked is a handle without a module
func Unlinked() Handle {
	return Handle{}
}

// Module returns the module or ErrNotLinked
func (h Handle) Module() (Module, error) {
	if h.module == nil {
		return nil, ErrNotLinked
	}
	return h.module, nil
}

// IsLinked reports whether a module is present
func (h Handle) IsLinked() bool {
	return h.module != nil
}
