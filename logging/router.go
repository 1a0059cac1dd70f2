package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

// Router moves events off the tick loop. Publish never blocks: events are
// queued for a single forwarding goroutine, which fans them out to one
// worker per sink. Anything that does not fit is counted and dropped.
type Router struct {
	queue    chan Event
	stop     chan struct{}
	workers  []*sinkWorker
	clock    Clock
	fallback *log.Logger
	floor    Severity
	fields   map[string]any
	warnGap  time.Duration
	closed   atomic.Bool
	wg       sync.WaitGroup

	forwarded atomic.Uint64
	dropped   atomic.Uint64
	nextWarn  atomic.Int64
}

// RouterStats counts events the router accepted and those it could not
// queue. Per-sink counts are keyed by sink name.
type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
	Sinks        map[string]SinkStats
}

type SinkStats struct {
	Written uint64
	Failed  uint64
	// Skipped counts events under the sink's severity floor.
	Skipped uint64
	// Backlogged counts events dropped because the sink fell behind.
	Backlogged uint64
}

func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink) *Router {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 512
	}
	warnGap := cfg.DropWarnInterval
	if warnGap <= 0 {
		warnGap = 5 * time.Second
	}
	r := &Router{
		queue:    make(chan Event, size),
		stop:     make(chan struct{}),
		clock:    clock,
		fallback: log.New(os.Stderr, "[logging] ", log.LstdFlags),
		floor:    cfg.MinimumSeverity,
		fields:   cfg.CloneFields(),
		warnGap:  warnGap,
	}
	backlog := min(max(size, 32), 1024)
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.workers = append(r.workers, &sinkWorker{
			name:     named.Name,
			sink:     named.Sink,
			floor:    cfg.FloorFor(named.Name),
			events:   make(chan Event, backlog),
			fallback: r.fallback,
		})
	}

	r.wg.Add(1 + len(r.workers))
	go r.run()
	for _, w := range r.workers {
		w := w
		go func() {
			defer r.wg.Done()
			w.run()
		}()
	}
	return r
}

func (r *Router) run() {
	defer r.wg.Done()
	defer func() {
		for _, w := range r.workers {
			close(w.events)
		}
	}()
	for {
		select {
		case event := <-r.queue:
			r.forward(event)
		case <-r.stop:
			for {
				select {
				case event := <-r.queue:
					r.forward(event)
				default:
					return
				}
			}
		}
	}
}

func (r *Router) forward(event Event) {
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = mergeFields(event, r.fields)
	r.forwarded.Add(1)
	for _, w := range r.workers {
		w.offer(event)
	}
}

// Publish queues event unless it is untyped, under the router floor, or
// the router is closed.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || event.Severity < r.floor || r.closed.Load() {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.drop(event)
	}
}

func (r *Router) drop(event Event) {
	r.dropped.Add(1)
	now := time.Now().UnixNano()
	next := r.nextWarn.Load()
	if now >= next && r.nextWarn.CompareAndSwap(next, now+r.warnGap.Nanoseconds()) {
		r.fallback.Printf("queue full, dropping %s at tick %d", event.Type, event.Tick)
	}
}

// Close stops intake, flushes queued events to every sink and closes them.
// Only the first call does any work.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.stop)
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var firstErr error
	for _, w := range r.workers {
		if err := w.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:  r.forwarded.Load(),
		DroppedTotal: r.dropped.Load(),
		Sinks:        make(map[string]SinkStats, len(r.workers)),
	}
	for _, w := range r.workers {
		stats.Sinks[w.name] = SinkStats{
			Written:    w.written.Load(),
			Failed:     w.failed.Load(),
			Skipped:    w.skipped.Load(),
			Backlogged: w.backlogged.Load(),
		}
	}
	return stats
}

type sinkWorker struct {
	name     string
	sink     Sink
	floor    Severity
	events   chan Event
	fallback *log.Logger

	written    atomic.Uint64
	failed     atomic.Uint64
	skipped    atomic.Uint64
	backlogged atomic.Uint64

	// owned by run
	failures  int
	nextRetry time.Time
}

func (w *sinkWorker) offer(event Event) {
	if event.Severity < w.floor {
		w.skipped.Add(1)
		return
	}
	select {
	case w.events <- cloneEvent(event):
	default:
		if w.backlogged.Add(1) == 1 {
			w.fallback.Printf("sink %s fell behind, dropping %s", w.name, event.Type)
		}
	}
}

func (w *sinkWorker) run() {
	for event := range w.events {
		if w.failures > 0 {
			if wait := time.Until(w.nextRetry); wait > 0 {
				time.Sleep(wait)
			}
		}
		if err := w.sink.Write(event); err != nil {
			w.fail(err)
			continue
		}
		w.written.Add(1)
		w.failures = 0
	}
}

// fail backs the worker off exponentially, capped at 32s.
func (w *sinkWorker) fail(err error) {
	w.failed.Add(1)
	w.failures++
	delay := time.Duration(1<<min(w.failures, 5)) * time.Second
	w.nextRetry = time.Now().Add(delay)
	w.fallback.Printf("sink %s failed: %v (retry in %s)", w.name, err, delay)
}
