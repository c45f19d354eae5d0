package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New()

	var got []WindowLoadedPayload
	bus.SubscribeWindowLoaded(func(p WindowLoadedPayload) {
		got = append(got, p)
	})

	bus.PublishWindowLoaded(WindowLoadedPayload{ViewportID: "source", Merged: 50, Inserted: 50})
	bus.PublishWindowLoaded(WindowLoadedPayload{ViewportID: "target", Merged: 30, Inserted: 30})
	bus.Drain()

	require.Len(t, got, 2)
	assert.Equal(t, "source", got[0].ViewportID)
	assert.Equal(t, 50, got[0].Merged)
	assert.Equal(t, "target", got[1].ViewportID)
}

func TestEventBus_SubscribersAreIndependentPerEvent(t *testing.T) {
	bus := New()

	var loads, evictions int
	bus.SubscribeWindowLoaded(func(WindowLoadedPayload) { loads++ })
	bus.SubscribeWindowEvicted(func(WindowEvictedPayload) { evictions++ })

	bus.PublishWindowLoaded(WindowLoadedPayload{})
	bus.PublishWindowEvicted(WindowEvictedPayload{Evicted: 40})
	bus.PublishWindowEvicted(WindowEvictedPayload{Evicted: 25})
	bus.Drain()

	assert.Equal(t, 1, loads)
	assert.Equal(t, 2, evictions)
}

func TestEventBus_DropsWhenBufferFull(t *testing.T) {
	bus := NewWithBuffer(1)

	var dropped []Event
	bus.OnDrop(func(e Event, _ any) { dropped = append(dropped, e) })

	bus.PublishTUIStarted(TUIStartedPayload{})
	bus.PublishTUIStarted(TUIStartedPayload{}) // buffer full, dropped

	require.Len(t, dropped, 1)
	assert.Equal(t, EventTUIStarted, dropped[0])
}

func TestEventBus_PanickingSubscriberIsContained(t *testing.T) {
	bus := New()

	var panicked bool
	bus.OnPanic(func(Event, any, any) { panicked = true })

	bus.SubscribeNavLocationChanged(func(NavLocationChangedPayload) {
		panic("boom")
	})

	var after int
	bus.SubscribeNavLocationChanged(func(NavLocationChangedPayload) { after++ })

	bus.PublishNavLocationChanged(NavLocationChangedPayload{ViewportID: "source", Index: 26137})
	bus.Drain()

	assert.True(t, panicked)
	assert.Equal(t, 1, after, "later subscribers still run after a panic")
}

func TestEventBus_OnPublishHook(t *testing.T) {
	bus := New()

	var events []Event
	bus.OnPublish(func(e Event, _ any) { events = append(events, e) })

	bus.PublishViewportRegistered(ViewportRegisteredPayload{ViewportID: "source"})
	bus.PublishViewportUnregistered(ViewportUnregisteredPayload{ViewportID: "source"})

	assert.Equal(t, []Event{EventViewportRegistered, EventViewportUnregistered}, events)
}
