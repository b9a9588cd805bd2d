package room

import (
	"context"
	"sync"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/log"
)

// Event is a room-level notification. Concrete types:
// PublicationAdded, PublicationRemoved, MemberJoined, MemberLeft,
// DataReceived, SubscribeFailed.
type Event interface {
	isEvent()
}

type PublicationAdded struct {
	Publication engine.Publication
}

type PublicationRemoved struct {
	Publication engine.Publication
}

type MemberJoined struct {
	Member engine.MemberID
}

type MemberLeft struct {
	Member engine.MemberID
}

type DataReceived struct {
	Message DataMessage
}

// SubscribeFailed reports a failed auto-subscribe attempt. The pass that
// produced it continues; the caller may retry via Subscribe.
type SubscribeFailed struct {
	PublicationID engine.PublicationID
	Err           error
}

func (PublicationAdded) isEvent()   {}
func (PublicationRemoved) isEvent() {}
func (MemberJoined) isEvent()       {}
func (MemberLeft) isEvent()         {}
func (DataReceived) isEvent()       {}
func (SubscribeFailed) isEvent()    {}

// Handler receives events. Handlers run on the dispatcher goroutine, one at
// a time, never concurrently with a reconciliation pass mutating session
// state. A handler may call back into the session (e.g. Subscribe).
type Handler func(Event)

// dispatcher serializes event delivery for one RoomSession through a single
// drain goroutine.
type dispatcher struct {
	ch     chan Event
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler

	logger *log.Logger
}

func newDispatcher(buffer int, logger *log.Logger) *dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &dispatcher{
		ch:       make(chan Event, buffer),
		cancel:   cancel,
		done:     make(chan struct{}),
		handlers: make(map[int]Handler),
		logger:   logger,
	}
	go d.loop(ctx)
	return d
}

// addHandler registers h and returns a removal func.
func (d *dispatcher) addHandler(h Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.handlers[id] = h

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.handlers, id)
	}
}

// emit enqueues an event. Blocks when the buffer is full rather than drop,
// so observers see every change in order. Must not be called while holding
// the session mutex.
func (d *dispatcher) emit(ev Event) {
	select {
	case d.ch <- ev:
	case <-d.done:
		d.logger.Debug("event dropped after dispatcher close")
	}
}

func (d *dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(d.done)
			return
		case ev := <-d.ch:
			d.deliver(ev)
		}
	}
}

func (d *dispatcher) deliver(ev Event) {
	d.mu.Lock()
	hs := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		hs = append(hs, h)
	}
	d.mu.Unlock()

	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panic", log.Any("error", r))
				}
			}()
			h(ev)
		}()
	}
}

func (d *dispatcher) close() {
	d.cancel()
}
