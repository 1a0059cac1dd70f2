package data

// Reference is either a literal or a pointer at a Data. Configuration
// blocks embed References; the template copy points at template slots and
// each instance copy is bound to its own arena once, at instantiation.
//
// The zero Reference reads the zero value of T.
type Reference[T Value] struct {
	literal  T
	slot     Slot
	linked   bool
	bound    *Data[T]
	resolved bool
}

// Literal returns a Reference that always reads v.
func Literal[T Value](v T) Reference[T] {
	return Reference[T]{literal: v}
}

// Ref returns a Reference to d, which must already belong to an arena.
// Until it is resolved against an instance arena it reads fallback.
func Ref[T Value](d *Data[T], fallback T) Reference[T] {
	r := Reference[T]{literal: fallback}
	if d != nil && d.Slot() != NoSlot {
		r.slot = d.Slot()
		r.linked = true
	}
	return r
}

func (r Reference[T]) Value() T {
	if r.bound != nil {
		return r.bound.Value()
	}
	return r.literal
}

// Bound reports whether reads go through a Data.
func (r Reference[T]) Bound() bool {
	return r.bound != nil
}

// Fallback returns the value read when r is not bound.
func (r Reference[T]) Fallback() T {
	return r.literal
}

// Target returns the template slot r points at, if any.
func (r Reference[T]) Target() (Slot, bool) {
	return r.slot, r.linked
}

// CheckReference rewrites r to point at the entry m holds for r's slot.
// Only the first call has any effect. A missing slot or a payload type
// mismatch leaves r reading its literal.
func (r *Reference[T]) CheckReference(m Map) {
	if r.resolved {
		return
	}
	r.resolved = true
	if !r.linked || m == nil {
		return
	}
	e, ok := m.Lookup(r.slot)
	if !ok {
		return
	}
	if d, ok := e.(*Data[T]); ok {
		r.bound = d
	}
}
