package data

import (
	"errors"
	"fmt"

	"schmoovin/motiongraph/key"
)

// Slot is the position of an entry inside its arena. A template arena and
// every arena cloned from it share slots.
type Slot int32

const NoSlot Slot = -1

var (
	ErrDuplicateID = errors.New("data: duplicate id")
	ErrOwned       = errors.New("data: entry already belongs to an arena")
)

// Map resolves a template slot to the entry occupying it in another arena.
type Map interface {
	Lookup(s Slot) (Entry, bool)
}

// Arena is the ordered set of Data owned by one graph template or instance.
type Arena struct {
	entries []Entry
	byID    map[key.Key]Slot
}

func NewArena() *Arena {
	return &Arena{byID: make(map[key.Key]Slot)}
}

// Add places e in the arena and assigns its slot.
func (a *Arena) Add(e Entry) (Slot, error) {
	if e.Slot() != NoSlot {
		return NoSlot, fmt.Errorf("%w: %q", ErrOwned, e.Name())
	}
	if existing, dup := a.byID[e.ID()]; dup {
		return NoSlot, fmt.Errorf("%w: %q collides with %q", ErrDuplicateID, e.Name(), a.entries[existing].Name())
	}
	s := Slot(len(a.entries))
	e.setSlot(s)
	a.entries = append(a.entries, e)
	a.byID[e.ID()] = s
	return s, nil
}

func (a *Arena) Len() int {
	return len(a.entries)
}

func (a *Arena) At(s Slot) Entry {
	return a.entries[s]
}

// Lookup implements Map.
func (a *Arena) Lookup(s Slot) (Entry, bool) {
	if a == nil || s < 0 || int(s) >= len(a.entries) {
		return nil, false
	}
	return a.entries[s], true
}

func (a *Arena) Find(id key.Key) (Entry, bool) {
	s, ok := a.byID[id]
	if !ok {
		return nil, false
	}
	return a.entries[s], true
}

// Each visits entries in slot order.
func (a *Arena) Each(fn func(Entry)) {
	for _, e := range a.entries {
		fn(e)
	}
}

// Clone builds a fresh arena with one new entry per slot. Bases are copied;
// override chains are not, since overrides belong to the instance that
// installed them.
func (a *Arena) Clone() *Arena {
	out := &Arena{
		entries: make([]Entry, len(a.entries)),
		byID:    make(map[key.Key]Slot, len(a.byID)),
	}
	for i, e := range a.entries {
		out.entries[i] = e.cloneEntry()
		out.byID[e.ID()] = Slot(i)
	}
	return out
}

// Get returns the Data with the given id if it exists and carries T.
func Get[T Value](a *Arena, id key.Key) (*Data[T], bool) {
	e, ok := a.Find(id)
	if !ok {
		return nil, false
	}
	d, ok := e.(*Data[T])
	return d, ok
}
