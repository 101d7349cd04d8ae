package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher hands events to a sink from a single worker goroutine so the
// issue and verify paths never wait on sink I/O. A nil *Dispatcher is valid
// and discards everything.
type Dispatcher struct {
	sink     Sink
	queue    chan Event
	block    bool
	quit     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	dropped  atomic.Uint64
}

// NewDispatcher returns nil when auditing is disabled.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:     sink,
		queue:    make(chan Event, max(cfg.BufferSize, 1)),
		block:    !cfg.DropIfFull,
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go d.loop()
	return d
}

// loop delivers until quit, then flushes whatever is already queued.
func (d *Dispatcher) loop() {
	defer close(d.finished)

	ctx := context.Background()
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(ctx, event)
		case <-d.quit:
			for {
				select {
				case event := <-d.queue:
					d.sink.Emit(ctx, event)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues event. When the buffer is full a dropping dispatcher counts
// the loss and returns; a blocking one waits for room, ctx or Close.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.stopping() {
		return
	}

	if !d.block {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	var cancelled <-chan struct{}
	if ctx != nil {
		cancelled = ctx.Done()
	}
	select {
	case d.queue <- event:
	case <-cancelled:
	case <-d.quit:
	}
}

func (d *Dispatcher) stopping() bool {
	select {
	case <-d.quit:
		return true
	default:
		return false
	}
}

// Close stops accepting events and returns once the queue is flushed.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() { close(d.quit) })
	<-d.finished
}

// Dropped returns how many events were discarded on a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
