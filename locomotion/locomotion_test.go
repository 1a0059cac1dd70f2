package locomotion

import (
	"context"
	"testing"

	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/logging"
	"schmoovin/motiongraph/override"
	"schmoovin/motiongraph/param"
)

func newDemo(t *testing.T, assets ...*override.Asset) *graph.Instance {
	t.Helper()
	tmpl, err := DemoTemplate()
	if err != nil {
		t.Fatalf("demo template: %v", err)
	}
	inst, err := tmpl.Instantiate(context.Background(), graph.InstanceOptions{
		Publisher: logging.NopPublisher(),
		Overrides: assets,
	})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	return inst
}

type post struct{ pos param.Vec3 }

func (p *post) Position() param.Vec3 { return p.pos }

func TestSettingsFollowOverrides(t *testing.T) {
	asset, err := override.New("fast", DemoTemplateName,
		override.FloatEntry(DataWalkSpeed, 6),
		override.BoolEntry(DataCanSprint, false),
	)
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	inst := newDemo(t, asset)
	settings, ok := SettingsOf(inst)
	if !ok {
		t.Fatalf("expected settings on demo instance")
	}
	if settings.WalkSpeed.Value() != 6 {
		t.Fatalf("expected overridden walk speed, got %v", settings.WalkSpeed.Value())
	}
	if got := settings.RunSpeed(true); got != 6 {
		t.Fatalf("expected sprint disabled by override, got %v", got)
	}

	plain := newDemo(t)
	plainSettings, _ := SettingsOf(plain)
	if got := plainSettings.RunSpeed(true); got != 7.5 {
		t.Fatalf("expected authored sprint speed, got %v", got)
	}
}

func TestSnapshotReadsAndConsumes(t *testing.T) {
	inst := newDemo(t)
	in := NewInputs()
	ladder := &post{pos: param.Vec3{X: 2, Z: 3}}

	inst.FireTrigger(in.Jump)
	inst.SetTransform(in.Ladder, ladder)
	inst.SetVector(in.Impulse, param.Vec3{Y: 5})
	sprint, _ := inst.Switch(in.Sprint)
	sprint.SetOn(true)

	snap := in.Read(inst)
	if !snap.Jump || !snap.OnLadder || snap.LadderPos != ladder.pos || !snap.Sprint {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Impulse.Y != 5 || snap.InWater {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	jump, _ := inst.Trigger(in.Jump)
	if !jump.WasChecked() || !jump.PeekTrigger() {
		t.Fatalf("expected read to check the trigger without clearing it")
	}
}

func TestDriverTicksBeforeControllers(t *testing.T) {
	inst := newDemo(t)
	in := NewInputs()
	var seen []bool
	fire := ControllerFunc(func(inst *graph.Instance) { inst.FireTrigger(in.Jump) })
	read := ControllerFunc(func(inst *graph.Instance) { seen = append(seen, in.Read(inst).Jump) })
	d := NewDriver(inst, read, fire)
	d.Step()
	d.Step()
	if len(seen) != 2 || seen[0] || seen[1] {
		t.Fatalf("expected reader before writer to miss the trigger each tick, got %v", seen)
	}

	seen = nil
	d = NewDriver(inst, fire, read)
	d.Step()
	if len(seen) != 1 || !seen[0] {
		t.Fatalf("expected reader after writer to see the trigger, got %v", seen)
	}
	if inst.TickCount() != 3 {
		t.Fatalf("expected three ticks, got %d", inst.TickCount())
	}
}

func TestMoverJumpsAndLands(t *testing.T) {
	inst := newDemo(t)
	m := NewMover(30)
	in := m.Inputs
	d := NewDriver(inst, m)

	d.Step()
	if m.State() != StateGrounded {
		t.Fatalf("expected grounded start, got %v", m.State())
	}
	speed, _ := inst.Float(in.Speed)
	if speed.Value() != 4 {
		t.Fatalf("expected walk speed 4, got %v", speed.Value())
	}

	d = NewDriver(inst, ControllerFunc(func(inst *graph.Instance) { inst.FireTrigger(in.Jump) }), m)
	d.Step()
	if m.State() != StateAirborne || m.Position.Y <= 0 {
		t.Fatalf("expected airborne after jump, got %v at %v", m.State(), m.Position.Y)
	}

	d = NewDriver(inst, m)
	for i := 0; i < 120 && m.State() != StateGrounded; i++ {
		d.Step()
	}
	if m.State() != StateGrounded || m.Position.Y != 0 {
		t.Fatalf("expected landing, got %v at %v", m.State(), m.Position.Y)
	}
}

func TestMoverAirJumpLimit(t *testing.T) {
	inst := newDemo(t)
	m := NewMover(30)
	jump := ControllerFunc(func(inst *graph.Instance) { inst.FireTrigger(m.Inputs.Jump) })
	d := NewDriver(inst, jump, m)
	d.Step()
	d.Step()
	d.Step()
	airJumps, _ := inst.Int(m.Inputs.AirJumps)
	if airJumps.Value() != 1 {
		t.Fatalf("expected max one air jump, got %d", airJumps.Value())
	}
}

func TestMoverClimbsAttachedLadder(t *testing.T) {
	inst := newDemo(t)
	m := NewMover(30)
	inst.SetTransform(m.Inputs.Ladder, &post{pos: param.Vec3{X: 10, Z: -1}})
	d := NewDriver(inst, m)
	d.Step()
	d.Step()
	if m.State() != StateClimbing {
		t.Fatalf("expected climbing, got %v", m.State())
	}
	if m.Position.X != 10 || m.Position.Z != -1 || m.Position.Y <= 0 {
		t.Fatalf("expected to climb at the ladder, got %+v", m.Position)
	}
}

func TestMoverFootsteps(t *testing.T) {
	inst := newDemo(t)
	m := NewMover(10)
	steps := 0
	footstep, _ := inst.Event(m.Inputs.Footstep)
	footstep.AddListener(func() { steps++ })
	d := NewDriver(inst, m)
	for i := 0; i < 10; i++ {
		d.Step()
	}
	if steps == 0 {
		t.Fatalf("expected footsteps while walking")
	}
}

func TestStateString(t *testing.T) {
	if StateSwimming.String() != "swimming" || State(9).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
}
