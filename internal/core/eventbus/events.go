// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication: window loads, evictions, and navigation
// changes flow through here so the TUI and persistence layers stay
// decoupled from the window manager.
package eventbus

// Event identifies one event type on the bus.
type Event string

// All bus events. Keep list sorted A-Z.
const (
	EventNavLocationChanged   Event = "nav.location-changed"
	EventTUIStarted           Event = "tui.started"
	EventTUIStopped           Event = "tui.stopped"
	EventViewportRegistered   Event = "viewport.registered"
	EventViewportUnregistered Event = "viewport.unregistered"
	EventWindowEvicted        Event = "window.evicted"
	EventWindowLoadFailed     Event = "window.load-failed"
	EventWindowLoaded         Event = "window.loaded"
)

// ViewportRegisteredPayload is emitted when a viewport is registered with
// the window manager.
type ViewportRegisteredPayload struct {
	ViewportID string
}

// ViewportUnregisteredPayload is emitted when a viewport is torn down.
type ViewportUnregisteredPayload struct {
	ViewportID string
}

// WindowLoadedPayload is emitted after a load result is merged into a
// viewport's state.
type WindowLoadedPayload struct {
	ViewportID string
	Merged     int
	Inserted   int
}

// WindowLoadFailedPayload is emitted when a fetch fails. The viewport's
// state is untouched and the next qualifying scroll retries.
type WindowLoadFailedPayload struct {
	ViewportID string
	Err        error
}

// WindowEvictedPayload is emitted after an eviction pass removes rendered
// elements.
type WindowEvictedPayload struct {
	ViewportID string
	Evicted    int
}

// NavLocationChangedPayload is emitted when the resolved location of a
// viewport's centered verse changes.
type NavLocationChangedPayload struct {
	ViewportID string
	Index      int
	Book       string
	Chapter    int
	Verse      int
	Label      string
}

// TUIStartedPayload is emitted when the TUI starts.
type TUIStartedPayload struct{}

// TUIStoppedPayload is emitted when the TUI stops.
type TUIStoppedPayload struct{}
