package locomotion

import (
	"math"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/param"
)

const (
	defaultGravity = 9.81
	strideLength   = 1.4
	climbFactor    = 0.5
	swimFactor     = 0.6
)

// State is the coarse movement mode.
type State int

const (
	StateGrounded State = iota
	StateAirborne
	StateClimbing
	StateSwimming
)

var stateNames = [...]string{
	StateGrounded: "grounded",
	StateAirborne: "airborne",
	StateClimbing: "climbing",
	StateSwimming: "swimming",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

var fallbackSettings = Settings{
	WalkSpeed:   data.Literal(4.0),
	SprintSpeed: data.Literal(7.0),
	JumpHeight:  data.Literal(1.0),
	CanSprint:   data.Literal(true),
	MaxAirJumps: data.Literal(0),
}

// Mover is a small kinematic character. It reads a Snapshot each step,
// integrates position with a fixed time step and writes speed, air jump
// count and footsteps back to the graph.
type Mover struct {
	Inputs   Inputs
	Step     float64
	Gravity  float64
	Heading  param.Vec3
	Position param.Vec3
	Velocity param.Vec3

	state    State
	airJumps int
	stride   float64
}

// NewMover returns a grounded mover walking along +X at rate ticks per
// second.
func NewMover(rate int) *Mover {
	if rate <= 0 {
		rate = 30
	}
	return &Mover{
		Inputs:  NewInputs(),
		Step:    1 / float64(rate),
		Gravity: defaultGravity,
		Heading: param.Vec3{X: 1},
	}
}

func (m *Mover) State() State { return m.state }

func (m *Mover) Evaluate(inst *graph.Instance) {
	snap := m.Inputs.Read(inst)
	settings, ok := SettingsOf(inst)
	if !ok {
		settings = &fallbackSettings
	}

	run := settings.RunSpeed(snap.Sprint)
	switch {
	case snap.OnLadder:
		m.state = StateClimbing
		m.airJumps = 0
		m.Position.X, m.Position.Z = snap.LadderPos.X, snap.LadderPos.Z
		m.Velocity = param.Vec3{Y: run * climbFactor}
	case snap.InWater:
		m.state = StateSwimming
		m.airJumps = 0
		m.Velocity = m.Heading.Scale(run * swimFactor)
		if m.Position.Y < snap.WaterPos.Y {
			m.Velocity.Y = run * swimFactor
		}
	default:
		m.walk(snap, settings, run)
	}

	m.Position = m.Position.Add(m.Velocity.Scale(m.Step))
	if m.state == StateSwimming && m.Position.Y > snap.WaterPos.Y {
		m.Position.Y = snap.WaterPos.Y
	}
	if m.state != StateClimbing && m.state != StateSwimming {
		if m.Position.Y <= 0 {
			m.Position.Y = 0
			m.Velocity.Y = math.Max(m.Velocity.Y, 0)
			if m.Velocity.Y == 0 {
				m.state = StateGrounded
				m.airJumps = 0
			}
		} else {
			m.state = StateAirborne
		}
	}

	horizontal := param.Vec3{X: m.Velocity.X, Z: m.Velocity.Z}.Len()
	inst.SetFloat(m.Inputs.Speed, horizontal)
	inst.SetInt(m.Inputs.AirJumps, m.airJumps)

	if m.state == StateGrounded {
		m.stride += horizontal * m.Step
		if m.stride >= strideLength {
			m.stride = 0
			inst.InvokeEvent(m.Inputs.Footstep)
		}
	}
}

func (m *Mover) walk(snap Snapshot, settings *Settings, run float64) {
	if m.state == StateClimbing || m.state == StateSwimming {
		m.state = StateAirborne
	}
	vy := m.Velocity.Y
	m.Velocity = m.Heading.Scale(run)
	m.Velocity.Y = vy

	if snap.Jump {
		takeoff := math.Sqrt(2 * m.Gravity * settings.JumpHeight.Value())
		switch {
		case m.state == StateGrounded:
			m.Velocity.Y = takeoff
			m.state = StateAirborne
		case m.airJumps < settings.MaxAirJumps.Value():
			m.airJumps++
			m.Velocity.Y = takeoff
		}
	}
	if snap.Launched {
		m.Velocity = m.Velocity.Add(snap.Impulse)
		m.state = StateAirborne
	}
	if m.state == StateAirborne {
		m.Velocity.Y -= m.Gravity * m.Step
	}
}
