// Package environment holds level objects that push state into a
// character's motion graph: ladders, water and jump pads.
package environment

import (
	"github.com/google/uuid"

	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/locomotion"
	"schmoovin/motiongraph/param"
)

// Keys are resolved once when a level loads.
type Keys struct {
	Ladder   key.Key
	Water    key.Key
	Sprint   key.Key
	Impulse  key.Key
	Launched key.Key
}

func DefaultKeys() Keys {
	return Keys{
		Ladder:   key.Intern(locomotion.NameLadder),
		Water:    key.Intern(locomotion.NameWater),
		Sprint:   key.Intern(locomotion.NameSprint),
		Impulse:  key.Intern(locomotion.NameImpulse),
		Launched: key.Intern(locomotion.NameLaunched),
	}
}

// Ladder is a climbable object. The ladder itself is the node the
// character's ladder Transform points at.
type Ladder struct {
	Keys Keys
	Base param.Vec3
}

func NewLadder(keys Keys, base param.Vec3) *Ladder {
	return &Ladder{Keys: keys, Base: base}
}

func (l *Ladder) Position() param.Vec3 { return l.Base }

// Attach reports false when the graph has no ladder Transform.
func (l *Ladder) Attach(inst *graph.Instance) bool {
	return inst.SetTransform(l.Keys.Ladder, l)
}

// Detach clears the ladder Transform only while it still points at l, so
// a character that already grabbed another ladder keeps it.
func (l *Ladder) Detach(inst *graph.Instance) bool {
	tr, ok := inst.Transform(l.Keys.Ladder)
	if !ok || tr.Value() != param.Node(l) {
		return false
	}
	tr.SetValue(nil)
	return true
}

// WaterVolume marks a character as submerged and blocks sprinting while
// it stays inside.
type WaterVolume struct {
	Keys    Keys
	Surface param.Vec3

	releases map[uuid.UUID]param.Release
}

func NewWaterVolume(keys Keys, surface param.Vec3) *WaterVolume {
	return &WaterVolume{Keys: keys, Surface: surface, releases: make(map[uuid.UUID]param.Release)}
}

func (w *WaterVolume) Position() param.Vec3 { return w.Surface }

// Inside reports whether inst entered and has not exited yet.
func (w *WaterVolume) Inside(inst *graph.Instance) bool {
	_, ok := w.releases[inst.ID()]
	return ok
}

// Enter is idempotent per instance. It reports false when the character
// was already inside.
func (w *WaterVolume) Enter(inst *graph.Instance) bool {
	if w.Inside(inst) {
		return false
	}
	inst.SetTransform(w.Keys.Water, w)
	release := param.Release(func() {})
	if sprint, ok := inst.Switch(w.Keys.Sprint); ok {
		release = sprint.Block()
	}
	w.releases[inst.ID()] = release
	return true
}

// Exit releases the sprint blocker taken by Enter.
func (w *WaterVolume) Exit(inst *graph.Instance) bool {
	release, ok := w.releases[inst.ID()]
	if !ok {
		return false
	}
	delete(w.releases, inst.ID())
	release()
	if tr, ok := inst.Transform(w.Keys.Water); ok && tr.Value() == param.Node(w) {
		tr.SetValue(nil)
	}
	return true
}

// JumpPad launches characters that touch it.
type JumpPad struct {
	Keys    Keys
	Impulse param.Vec3
}

func NewJumpPad(keys Keys, impulse param.Vec3) *JumpPad {
	return &JumpPad{Keys: keys, Impulse: impulse}
}

// Launch sets the impulse and fires the launched trigger. Nothing is
// written while the trigger is blocked.
func (p *JumpPad) Launch(inst *graph.Instance) bool {
	launched, ok := inst.Trigger(p.Keys.Launched)
	if !ok || launched.Blockers() > 0 {
		return false
	}
	if !inst.SetVector(p.Keys.Impulse, p.Impulse) {
		return false
	}
	launched.Trigger()
	return launched.PeekTrigger()
}
