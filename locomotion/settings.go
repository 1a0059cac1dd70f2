// Package locomotion holds the pieces of the character state machine that
// talk to a motion graph: tuning settings backed by Data, cached input keys
// and the per-tick driver.
package locomotion

import (
	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/graph"
)

// SettingsConfig is the config name Settings is registered under.
const SettingsConfig = "locomotion"

// Settings is the tuning block designers point at Data. Each field is a
// literal until it is bound to an instance arena.
type Settings struct {
	WalkSpeed   data.Reference[float64]
	SprintSpeed data.Reference[float64]
	JumpHeight  data.Reference[float64]
	CanSprint   data.Reference[bool]
	MaxAirJumps data.Reference[int]
}

// Instantiate returns a copy bound to m. The receiver is left untouched so
// the template copy keeps pointing at template slots.
func (s *Settings) Instantiate(m data.Map) graph.Config {
	out := *s
	out.WalkSpeed.CheckReference(m)
	out.SprintSpeed.CheckReference(m)
	out.JumpHeight.CheckReference(m)
	out.CanSprint.CheckReference(m)
	out.MaxAirJumps.CheckReference(m)
	return &out
}

// SettingsOf returns the instance's bound settings.
func SettingsOf(inst *graph.Instance) (*Settings, bool) {
	return graph.ConfigOf[*Settings](inst, SettingsConfig)
}

// RunSpeed picks the horizontal speed for the current sprint state.
func (s *Settings) RunSpeed(sprinting bool) float64 {
	if sprinting && s.CanSprint.Value() {
		return s.SprintSpeed.Value()
	}
	return s.WalkSpeed.Value()
}
