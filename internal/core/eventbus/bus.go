package eventbus

import (
	"context"
	"sync"
)

const defaultBuffer = 64

// envelope carries one published event through the buffered channel.
type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered asynchronous pub/sub bus. Publishing never blocks:
// when the buffer is full the event is dropped and the OnDrop hooks fire.
// Subscribers run on the dispatch goroutine started by Start.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the default buffer size.
func New() *EventBus {
	return NewWithBuffer(defaultBuffer)
}

// NewWithBuffer creates a bus with an explicit buffer size.
func NewWithBuffer(size int) *EventBus {
	if size < 1 {
		size = 1
	}
	return &EventBus{
		ch:   make(chan envelope, size),
		subs: make(map[Event][]func(any)),
	}
}

// Start runs the dispatch loop until ctx is cancelled. Callers run it on
// its own goroutine; subscribers are invoked sequentially from that
// goroutine, and a panicking subscriber is contained via the OnPanic hooks.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

// Drain synchronously dispatches everything currently buffered. Tests use
// this instead of Start to keep delivery deterministic.
func (bus *EventBus) Drain() {
	for {
		select {
		case env := <-bus.ch:
			bus.dispatch(env)
		default:
			return
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	fns := make([]func(any), len(bus.subs[env.event]))
	copy(fns, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range fns {
		bus.invoke(env, fn)
	}
}

func (bus *EventBus) invoke(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

// subscribe registers an untyped handler; the typed Subscribe* wrappers
// below are the public surface.
func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// send enqueues an event and fires hooks. Used by the typed Publish*
// methods.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runOnPublish(event, payload)
	default:
		bus.runOnDrop(event, payload)
	}
}

// PublishViewportRegistered publishes a viewport.registered event.
func (bus *EventBus) PublishViewportRegistered(p ViewportRegisteredPayload) {
	bus.send(EventViewportRegistered, p)
}

// SubscribeViewportRegistered registers a handler for viewport.registered.
func (bus *EventBus) SubscribeViewportRegistered(fn func(ViewportRegisteredPayload)) {
	bus.subscribe(EventViewportRegistered, func(p any) { fn(p.(ViewportRegisteredPayload)) })
}

// PublishViewportUnregistered publishes a viewport.unregistered event.
func (bus *EventBus) PublishViewportUnregistered(p ViewportUnregisteredPayload) {
	bus.send(EventViewportUnregistered, p)
}

// SubscribeViewportUnregistered registers a handler for viewport.unregistered.
func (bus *EventBus) SubscribeViewportUnregistered(fn func(ViewportUnregisteredPayload)) {
	bus.subscribe(EventViewportUnregistered, func(p any) { fn(p.(ViewportUnregisteredPayload)) })
}

// PublishWindowLoaded publishes a window.loaded event.
func (bus *EventBus) PublishWindowLoaded(p WindowLoadedPayload) {
	bus.send(EventWindowLoaded, p)
}

// SubscribeWindowLoaded registers a handler for window.loaded.
func (bus *EventBus) SubscribeWindowLoaded(fn func(WindowLoadedPayload)) {
	bus.subscribe(EventWindowLoaded, func(p any) { fn(p.(WindowLoadedPayload)) })
}

// PublishWindowLoadFailed publishes a window.load-failed event.
func (bus *EventBus) PublishWindowLoadFailed(p WindowLoadFailedPayload) {
	bus.send(EventWindowLoadFailed, p)
}

// SubscribeWindowLoadFailed registers a handler for window.load-failed.
func (bus *EventBus) SubscribeWindowLoadFailed(fn func(WindowLoadFailedPayload)) {
	bus.subscribe(EventWindowLoadFailed, func(p any) { fn(p.(WindowLoadFailedPayload)) })
}

// PublishWindowEvicted publishes a window.evicted event.
func (bus *EventBus) PublishWindowEvicted(p WindowEvictedPayload) {
	bus.send(EventWindowEvicted, p)
}

// SubscribeWindowEvicted registers a handler for window.evicted.
func (bus *EventBus) SubscribeWindowEvicted(fn func(WindowEvictedPayload)) {
	bus.subscribe(EventWindowEvicted, func(p any) { fn(p.(WindowEvictedPayload)) })
}

// PublishNavLocationChanged publishes a nav.location-changed event.
func (bus *EventBus) PublishNavLocationChanged(p NavLocationChangedPayload) {
	bus.send(EventNavLocationChanged, p)
}

// SubscribeNavLocationChanged registers a handler for nav.location-changed.
func (bus *EventBus) SubscribeNavLocationChanged(fn func(NavLocationChangedPayload)) {
	bus.subscribe(EventNavLocationChanged, func(p any) { fn(p.(NavLocationChangedPayload)) })
}

// PublishTUIStarted publishes a tui.started event.
func (bus *EventBus) PublishTUIStarted(p TUIStartedPayload) {
	bus.send(EventTUIStarted, p)
}

// SubscribeTUIStarted registers a handler for tui.started.
func (bus *EventBus) SubscribeTUIStarted(fn func(TUIStartedPayload)) {
	bus.subscribe(EventTUIStarted, func(p any) { fn(p.(TUIStartedPayload)) })
}

// PublishTUIStopped publishes a tui.stopped event.
func (bus *EventBus) PublishTUIStopped(p TUIStoppedPayload) {
	bus.send(EventTUIStopped, p)
}

// SubscribeTUIStopped registers a handler for tui.stopped.
func (bus *EventBus) SubscribeTUIStopped(fn func(TUIStoppedPayload)) {
	bus.subscribe(EventTUIStopped, func(p any) { fn(p.(TUIStoppedPayload)) })
}
