package session

import (
	"sync"

	"github.com/luciancaetano/roomnet"
)

// dispatcher is the typed publish/subscribe registry mapping event kinds to
// ordered subscriber lists. Delivery is synchronous and in registration
// order; there is no deduplication, so a handler registered twice runs twice
// per event.
type dispatcher struct {
	mu       sync.RWMutex
	handlers [roomnet.NumEventKinds][]roomnet.Handler
}

func newDispatcher() *dispatcher {
	return &dispatcher{}
}

func (d *dispatcher) on(kind roomnet.EventKind, handler roomnet.Handler) {
	if kind < 0 || kind >= roomnet.NumEventKinds || handler == nil {
		return
	}

	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], handler)
	d.mu.Unlock()
}

// emit invokes every subscriber of the event's kind before returning. The
// subscriber list is snapshotted so handlers may register further handlers
// without affecting the current dispatch.
func (d *dispatcher) emit(ev roomnet.Event) {
	d.mu.RLock()
	subs := d.handlers[ev.Kind]
	d.mu.RUnlock()

	for _, handler := range subs {
		handler(ev)
	}
}
