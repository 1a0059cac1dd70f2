package param

import "fmt"

// Visitor has one method per variant. Implementing it is how consumers get
// a compile error when a variant is added.
type Visitor interface {
	VisitFloat(*Float)
	VisitInt(*Int)
	VisitSwitch(*Switch)
	VisitTrigger(*Trigger)
	VisitTransform(*Transform)
	VisitVector(*Vector)
	VisitEvent(*Event)
}

func Visit(p Parameter, v Visitor) {
	switch p := p.(type) {
	case *Float:
		v.VisitFloat(p)
	case *Int:
		v.VisitInt(p)
	case *Switch:
		v.VisitSwitch(p)
	case *Trigger:
		v.VisitTrigger(p)
	case *Transform:
		v.VisitTransform(p)
	case *Vector:
		v.VisitVector(p)
	case *Event:
		v.VisitEvent(p)
	default:
		panic(fmt.Sprintf("param: unhandled parameter type %T", p))
	}
}

// Clone returns a fresh parameter with the same key and authored start
// value. Runtime state, blockers and listeners are not copied.
func Clone(p Parameter, opts Options) Parameter {
	c := cloner{opts: opts}
	Visit(p, &c)
	return c.out
}

type cloner struct {
	opts Options
	out  Parameter
}

func (c *cloner) VisitFloat(p *Float)         { c.out = NewFloat(p.key, p.v.start, c.opts) }
func (c *cloner) VisitInt(p *Int)             { c.out = NewInt(p.key, p.v.start, c.opts) }
func (c *cloner) VisitSwitch(p *Switch)       { c.out = NewSwitch(p.key, p.start, c.opts) }
func (c *cloner) VisitTrigger(p *Trigger)     { c.out = NewTrigger(p.key, c.opts) }
func (c *cloner) VisitTransform(p *Transform) { c.out = NewTransform(p.key, c.opts) }
func (c *cloner) VisitVector(p *Vector)       { c.out = NewVector(p.key, p.v.start, c.opts) }
func (c *cloner) VisitEvent(p *Event)         { c.out = NewEvent(p.key, c.opts) }
