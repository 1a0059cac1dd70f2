// Package data holds the tunable constants of a motion graph. A Data value
// is a base value composed through an ordered chain of override functions
// installed by external collaborators such as override assets.
package data

import (
	"fmt"
	"slices"

	"schmoovin/motiongraph/key"
)

// Value constrains the payload types a Data may carry.
type Value interface {
	bool | int | float64
}

type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(raw string) (Kind, error) {
	switch raw {
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	default:
		return 0, fmt.Errorf("data: unknown kind %q", raw)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < KindBool || k > KindFloat {
		return nil, fmt.Errorf("data: invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// KindOf reports the Kind for T.
func KindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBool
	case int:
		return KindInt
	default:
		return KindFloat
	}
}

// Func is an override. Overrides from override assets ignore their input
// and return a replacement.
type Func[T Value] func(T) T

// Handle identifies one installed override on one Data.
type Handle uint64

// Source is a collaborator that may have an override for a given identity.
type Source[T Value] interface {
	OverrideFor(id key.Key) (Func[T], bool)
}

type override[T Value] struct {
	handle Handle
	fn     Func[T]
}

// Data is a named constant whose observed value is the base folded
// through the installed overrides in installation order.
type Data[T Value] struct {
	id         key.Key
	name       string
	base       T
	chain      []override[T]
	nextHandle Handle
	slot       Slot
}

// New creates a Data that does not yet belong to an arena.
func New[T Value](name string, base T) *Data[T] {
	return &Data[T]{id: key.Intern(name), name: name, base: base, slot: NoSlot}
}

// NewKeyed creates a Data under an identity the caller already resolved.
func NewKeyed[T Value](id key.Key, name string, base T) *Data[T] {
	return &Data[T]{id: id, name: name, base: base, slot: NoSlot}
}

func (d *Data[T]) ID() key.Key    { return d.id }
func (d *Data[T]) Name() string   { return d.name }
func (d *Data[T]) Kind() Kind     { return KindOf[T]() }
func (d *Data[T]) Slot() Slot     { return d.slot }
func (d *Data[T]) Base() T        { return d.base }
func (d *Data[T]) SetBase(v T)    { d.base = v }
func (d *Data[T]) Overrides() int { return len(d.chain) }

func (d *Data[T]) Value() T {
	v := d.base
	for _, o := range d.chain {
		v = o.fn(v)
	}
	return v
}

// AddOverride appends fn to the chain and returns the handle that removes it.
func (d *Data[T]) AddOverride(fn Func[T]) Handle {
	d.nextHandle++
	h := d.nextHandle
	d.chain = append(d.chain, override[T]{handle: h, fn: fn})
	return h
}

// AddOverrideFrom asks src for an override bound to this Data's identity
// and installs it when src has one.
func (d *Data[T]) AddOverrideFrom(src Source[T]) (Handle, bool) {
	if src == nil {
		return 0, false
	}
	fn, ok := src.OverrideFor(d.id)
	if !ok || fn == nil {
		return 0, false
	}
	return d.AddOverride(fn), true
}

// RemoveOverride removes the override installed under h. It reports false
// when h is unknown or already removed.
func (d *Data[T]) RemoveOverride(h Handle) bool {
	idx := slices.IndexFunc(d.chain, func(o override[T]) bool { return o.handle == h })
	if idx < 0 {
		return false
	}
	d.chain = slices.Delete(d.chain, idx, idx+1)
	return true
}

// Entry is a Data of any payload type.
type Entry interface {
	ID() key.Key
	Name() string
	Kind() Kind
	Slot() Slot
	cloneEntry() Entry
	setSlot(Slot)
}

func (d *Data[T]) cloneEntry() Entry {
	return &Data[T]{id: d.id, name: d.name, base: d.base, slot: d.slot}
}

func (d *Data[T]) setSlot(s Slot) { d.slot = s }
