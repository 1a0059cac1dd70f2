package param

import "math"

// lazy holds a value that is reset to its start value on the first read
// after ResetValue. A write in between cancels the reset.
type lazy[T comparable] struct {
	start   T
	current T
	pending bool
	changed listeners[T]
}

// observed is what a reader would see right now, without consuming the
// pending reset.
func (v *lazy[T]) observed() T {
	if v.pending {
		return v.start
	}
	return v.current
}

func (v *lazy[T]) get() T {
	if v.pending {
		v.current = v.start
		v.pending = false
	}
	return v.current
}

func (v *lazy[T]) set(x T) {
	old := v.observed()
	v.pending = false
	v.current = x
	if !same(x, old) {
		v.changed.emit(x)
	}
}

func (v *lazy[T]) reset() {
	old := v.observed()
	v.pending = true
	if !same(v.start, old) {
		v.changed.emit(v.start)
	}
}

// same is == except that NaN matches NaN, so rewriting NaN is not a change.
func same[T comparable](a, b T) bool {
	if a == b {
		return true
	}
	switch x := any(a).(type) {
	case float64:
		return sameFloat(x, any(b).(float64))
	case Vec3:
		y := any(b).(Vec3)
		return sameFloat(x.X, y.X) && sameFloat(x.Y, y.Y) && sameFloat(x.Z, y.Z)
	}
	return false
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
