package param

import "schmoovin/motiongraph/key"

// Event is a stateless multicast callback list.
type Event struct {
	base
	listeners listeners[struct{}]
}

func NewEvent(k key.Key, _ Options) *Event {
	return &Event{base: base{key: k}}
}

func (*Event) Kind() Kind { return KindEvent }

func (e *Event) AddListener(fn func()) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return e.listeners.add(func(struct{}) { fn() })
}

func (e *Event) Invoke() {
	e.listeners.emit(struct{}{})
}

func (e *Event) Listeners() int { return e.listeners.len() }

// ResetValue does nothing; events carry no state between ticks.
func (*Event) ResetValue() {}
