package app

import (
	"schmoovin/motiongraph/environment"
	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/locomotion"
	"schmoovin/motiongraph/param"
)

const scenarioLength = 300

// scenario plays a fixed loop of inputs and level interactions so the
// inspector has something to show without a player.
type scenario struct {
	jump   key.Key
	sprint key.Key
	ladder *environment.Ladder
	water  *environment.WaterVolume
	pad    *environment.JumpPad
}

func newScenario() *scenario {
	keys := environment.DefaultKeys()
	return &scenario{
		jump:   key.Intern(locomotion.NameJump),
		sprint: keys.Sprint,
		ladder: environment.NewLadder(keys, param.Vec3{X: 20}),
		water:  environment.NewWaterVolume(keys, param.Vec3{Y: -0.5}),
		pad:    environment.NewJumpPad(keys, param.Vec3{X: 2, Y: 9}),
	}
}

func (s *scenario) Evaluate(inst *graph.Instance) {
	switch inst.TickCount() % scenarioLength {
	case 30, 40:
		inst.FireTrigger(s.jump)
	case 90, 299:
		if sw, ok := inst.Switch(s.sprint); ok {
			sw.Toggle()
		}
	case 120:
		s.pad.Launch(inst)
	case 180:
		s.water.Enter(inst)
	case 240:
		s.water.Exit(inst)
	case 260:
		s.ladder.Attach(inst)
	case 290:
		s.ladder.Detach(inst)
	}
}
