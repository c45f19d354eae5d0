package window

import "errors"

var (
	// ErrViewportRegistered is returned when registering an id that already
	// has an active viewport. Re-registration must go through Unregister;
	// silently overwriting live state would be a programmer error worth
	// surfacing.
	ErrViewportRegistered = errors.New("viewport already registered")

	// ErrViewportUnknown is returned by operations on an id that was never
	// registered (or has been unregistered).
	ErrViewportUnknown = errors.New("viewport not registered")
)
