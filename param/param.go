// Package param implements the typed signals a motion graph exposes to its
// collaborators: numeric and vector values with lazy per-tick reset, gated
// switches and triggers, spatial references and zero-payload events.
//
// Parameters are not safe for concurrent use. A graph instance and all of
// its parameters belong to the simulation thread.
package param

import (
	"fmt"
	"slices"

	"schmoovin/motiongraph/key"
)

// Kind enumerates the closed set of parameter variants.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindSwitch
	KindTrigger
	KindTransform
	KindVector
	KindEvent
)

var kindNames = [...]string{
	KindFloat:     "float",
	KindInt:       "int",
	KindSwitch:    "switch",
	KindTrigger:   "trigger",
	KindTransform: "transform",
	KindVector:    "vector",
	KindEvent:     "event",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps the String form back to a Kind.
func ParseKind(raw string) (Kind, error) {
	for i, name := range kindNames {
		if name == raw {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("param: unknown kind %q", raw)
}

// Parameter is implemented only by the variants in this package.
type Parameter interface {
	Key() key.Key
	Kind() Kind
	// ResetValue is called once per tick by the owning state machine.
	ResetValue()
	sealed()
}

// Reporter receives contract violations and diagnostics. Parameters never
// fail; they clamp and report.
type Reporter interface {
	BlockerUnderflow(k key.Key, kind Kind)
	TriggerUnconsumed(k key.Key)
	// NodeRejected reports a Transform write whose node cannot be compared
	// by identity. The transform keeps its previous value.
	NodeRejected(k key.Key, n Node)
}

type nopReporter struct{}

func (nopReporter) BlockerUnderflow(key.Key, Kind) {}
func (nopReporter) TriggerUnconsumed(key.Key)      {}
func (nopReporter) NodeRejected(key.Key, Node)     {}

// Options carries per-instance collaborators into a parameter.
type Options struct {
	Reporter Reporter
}

func (o Options) reporter() Reporter {
	if o.Reporter == nil {
		return nopReporter{}
	}
	return o.Reporter
}

type base struct {
	key key.Key
}

func (b base) Key() key.Key { return b.key }
func (base) sealed()        {}

// Subscription removes a listener when cancelled. Cancel is idempotent and
// the zero value is a no-op.
type Subscription struct {
	cancel func()
}

func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Release gives back a blocker acquired with Block. Calling it more than
// once has no further effect.
type Release func()

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners is a multicast list run synchronously in registration order.
// Removal swaps in a fresh slice so an emit already in progress is not
// disturbed by a listener cancelling itself.
type listeners[T any] struct {
	nextID  uint64
	entries []listener[T]
}

func (l *listeners[T]) add(fn func(T)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	return Subscription{cancel: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id uint64) {
	idx := slices.IndexFunc(l.entries, func(e listener[T]) bool { return e.id == id })
	if idx < 0 {
		return
	}
	l.entries = slices.Delete(slices.Clone(l.entries), idx, idx+1)
}

func (l *listeners[T]) emit(v T) {
	for _, e := range l.entries {
		e.fn(v)
	}
}

func (l *listeners[T]) len() int {
	return len(l.entries)
}
