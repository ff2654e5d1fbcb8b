package session

import (
	"testing"

	"github.com/luciancaetano/roomnet"
)

// TestDispatchOrder verifies subscribers run synchronously in registration order
func TestDispatchOrder(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	var order []int

	d.on(roomnet.EventRelay, func(roomnet.Event) { order = append(order, 1) })
	d.on(roomnet.EventRelay, func(roomnet.Event) { order = append(order, 2) })
	d.on(roomnet.EventRelay, func(roomnet.Event) { order = append(order, 3) })

	d.emit(roomnet.Event{Kind: roomnet.EventRelay})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("dispatch order = %v, want [1 2 3]", order)
	}
}

// TestDuplicateRegistration verifies there is no handler deduplication
func TestDuplicateRegistration(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	calls := 0
	handler := func(roomnet.Event) { calls++ }

	d.on(roomnet.EventError, handler)
	d.on(roomnet.EventError, handler)

	d.emit(roomnet.Event{Kind: roomnet.EventError})

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

// TestEmitWithoutSubscribers verifies emitting to an empty list is safe
func TestEmitWithoutSubscribers(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.emit(roomnet.Event{Kind: roomnet.EventConnected})
}

// TestSubscribersAreKindScoped verifies handlers only see their own kind
func TestSubscribersAreKindScoped(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	var relayCalls, errorCalls int

	d.on(roomnet.EventRelay, func(roomnet.Event) { relayCalls++ })
	d.on(roomnet.EventError, func(roomnet.Event) { errorCalls++ })

	d.emit(roomnet.Event{Kind: roomnet.EventRelay})
	d.emit(roomnet.Event{Kind: roomnet.EventRelay})
	d.emit(roomnet.Event{Kind: roomnet.EventError})

	if relayCalls != 2 {
		t.Errorf("relay calls = %d, want 2", relayCalls)
	}
	if errorCalls != 1 {
		t.Errorf("error calls = %d, want 1", errorCalls)
	}
}

// TestInvalidKindRegistration verifies out-of-range kinds and nil handlers
// are ignored
func TestInvalidKindRegistration(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.on(roomnet.EventKind(-1), func(roomnet.Event) { t.Error("should never run") })
	d.on(roomnet.NumEventKinds, func(roomnet.Event) { t.Error("should never run") })
	d.on(roomnet.EventRelay, nil)

	d.emit(roomnet.Event{Kind: roomnet.EventRelay})
}

// TestRegistrationDuringDispatch verifies a handler registered while its own
// kind dispatches joins only subsequent dispatches
func TestRegistrationDuringDispatch(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	lateCalls := 0

	d.on(roomnet.EventConnected, func(roomnet.Event) {
		d.on(roomnet.EventConnected, func(roomnet.Event) { lateCalls++ })
	})

	d.emit(roomnet.Event{Kind: roomnet.EventConnected})
	if lateCalls != 0 {
		t.Errorf("late handler ran during the dispatch that registered it")
	}

	d.emit(roomnet.Event{Kind: roomnet.EventConnected})
	if lateCalls != 1 {
		t.Errorf("late calls = %d, want 1", lateCalls)
	}
}
