package param

import "schmoovin/motiongraph/key"

// Float is a float64 parameter with lazy reset.
type Float struct {
	base
	v lazy[float64]
}

func NewFloat(k key.Key, start float64, _ Options) *Float {
	return &Float{base: base{key: k}, v: lazy[float64]{start: start, current: start}}
}

func (*Float) Kind() Kind                               { return KindFloat }
func (p *Float) Value() float64                         { return p.v.get() }
func (p *Float) SetValue(x float64)                     { p.v.set(x) }
func (p *Float) ResetValue()                            { p.v.reset() }
func (p *Float) StartValue() float64                    { return p.v.start }
func (p *Float) SetStartValue(x float64)                { p.v.start = x }
func (p *Float) OnChange(fn func(float64)) Subscription { return p.v.changed.add(fn) }

// Int is an int parameter with lazy reset.
type Int struct {
	base
	v lazy[int]
}

func NewInt(k key.Key, start int, _ Options) *Int {
	return &Int{base: base{key: k}, v: lazy[int]{start: start, current: start}}
}

func (*Int) Kind() Kind                           { return KindInt }
func (p *Int) Value() int                         { return p.v.get() }
func (p *Int) SetValue(x int)                     { p.v.set(x) }
func (p *Int) ResetValue()                        { p.v.reset() }
func (p *Int) StartValue() int                    { return p.v.start }
func (p *Int) SetStartValue(x int)                { p.v.start = x }
func (p *Int) OnChange(fn func(int)) Subscription { return p.v.changed.add(fn) }

// Increment adds delta to the current value. It counts as a read followed
// by a write, so a pending reset is applied first.
func (p *Int) Increment(delta int) {
	p.v.set(p.v.get() + delta)
}

// Vector is a Vec3 parameter with lazy reset.
type Vector struct {
	base
	v lazy[Vec3]
}

func NewVector(k key.Key, start Vec3, _ Options) *Vector {
	return &Vector{base: base{key: k}, v: lazy[Vec3]{start: start, current: start}}
}

func (*Vector) Kind() Kind                            { return KindVector }
func (p *Vector) Value() Vec3                         { return p.v.get() }
func (p *Vector) SetValue(x Vec3)                     { p.v.set(x) }
func (p *Vector) ResetValue()                         { p.v.reset() }
func (p *Vector) StartValue() Vec3                    { return p.v.start }
func (p *Vector) SetStartValue(x Vec3)                { p.v.start = x }
func (p *Vector) OnChange(fn func(Vec3)) Subscription { return p.v.changed.add(fn) }
