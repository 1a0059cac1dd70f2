package locomotion

import (
	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/param"
)

// Well-known parameter names shared by the demo template and the
// environment collaborators.
const (
	NameSpeed    = "speed"
	NameAirJumps = "air_jumps"
	NameSprint   = "sprint"
	NameJump     = "jump"
	NameLaunched = "launched"
	NameLadder   = "ladder"
	NameWater    = "water"
	NameImpulse  = "impulse"
	NameFootstep = "footstep"
)

// Inputs caches the keys the state machine reads every tick. Build it once
// when the character wakes up.
type Inputs struct {
	Speed    key.Key
	AirJumps key.Key
	Sprint   key.Key
	Jump     key.Key
	Launched key.Key
	Ladder   key.Key
	Water    key.Key
	Impulse  key.Key
	Footstep key.Key
}

func NewInputs() Inputs {
	return Inputs{
		Speed:    key.Intern(NameSpeed),
		AirJumps: key.Intern(NameAirJumps),
		Sprint:   key.Intern(NameSprint),
		Jump:     key.Intern(NameJump),
		Launched: key.Intern(NameLaunched),
		Ladder:   key.Intern(NameLadder),
		Water:    key.Intern(NameWater),
		Impulse:  key.Intern(NameImpulse),
		Footstep: key.Intern(NameFootstep),
	}
}

func (in Inputs) keys() []key.Key {
	return []key.Key{in.Speed, in.AirJumps, in.Sprint, in.Jump, in.Launched, in.Ladder, in.Water, in.Impulse}
}

// Snapshot is one tick's view of the graph. Fields for parameters the graph
// does not define keep their zero value.
type Snapshot struct {
	Speed     float64
	AirJumps  int
	Sprint    bool
	Jump      bool
	Launched  bool
	OnLadder  bool
	LadderPos param.Vec3
	InWater   bool
	WaterPos  param.Vec3
	Impulse   param.Vec3
}

// Read fills a Snapshot. Triggers are read with CheckTrigger, so reading
// counts as consuming them.
func (in Inputs) Read(inst *graph.Instance) Snapshot {
	r := reader{inputs: in}
	for _, k := range in.keys() {
		if p, ok := inst.Parameter(k); ok {
			param.Visit(p, &r)
		}
	}
	return r.snap
}

type reader struct {
	inputs Inputs
	snap   Snapshot
}

func (r *reader) VisitFloat(p *param.Float) {
	if p.Key() == r.inputs.Speed {
		r.snap.Speed = p.Value()
	}
}

func (r *reader) VisitInt(p *param.Int) {
	if p.Key() == r.inputs.AirJumps {
		r.snap.AirJumps = p.Value()
	}
}

func (r *reader) VisitSwitch(p *param.Switch) {
	if p.Key() == r.inputs.Sprint {
		r.snap.Sprint = p.On()
	}
}

func (r *reader) VisitTrigger(p *param.Trigger) {
	switch p.Key() {
	case r.inputs.Jump:
		r.snap.Jump = p.CheckTrigger()
	case r.inputs.Launched:
		r.snap.Launched = p.CheckTrigger()
	}
}

func (r *reader) VisitTransform(p *param.Transform) {
	n := p.Value()
	if n == nil {
		return
	}
	switch p.Key() {
	case r.inputs.Ladder:
		r.snap.OnLadder = true
		r.snap.LadderPos = n.Position()
	case r.inputs.Water:
		r.snap.InWater = true
		r.snap.WaterPos = n.Position()
	}
}

func (r *reader) VisitVector(p *param.Vector) {
	if p.Key() == r.inputs.Impulse {
		r.snap.Impulse = p.Value()
	}
}

func (r *reader) VisitEvent(*param.Event) {}
