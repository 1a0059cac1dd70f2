package locomotion

import (
	"context"
	"time"

	"schmoovin/motiongraph/graph"
)

// Controller is anything that reads or drives the graph once per step, such
// as input mapping or the movement state machine.
type Controller interface {
	Evaluate(inst *graph.Instance)
}

type ControllerFunc func(inst *graph.Instance)

func (f ControllerFunc) Evaluate(inst *graph.Instance) { f(inst) }

// Driver advances one instance. Each step resets the graph and then runs
// controllers in the order they were given, so writers must come before
// the readers that depend on them.
type Driver struct {
	inst        *graph.Instance
	controllers []Controller
}

func NewDriver(inst *graph.Instance, controllers ...Controller) *Driver {
	return &Driver{inst: inst, controllers: controllers}
}

func (d *Driver) Instance() *graph.Instance { return d.inst }

// Add appends a controller after the existing ones.
func (d *Driver) Add(c Controller) {
	d.controllers = append(d.controllers, c)
}

// Step runs one simulation tick.
func (d *Driver) Step() {
	d.inst.Tick()
	for _, c := range d.controllers {
		c.Evaluate(d.inst)
	}
}

// Run steps at rate ticks per second until ctx is cancelled.
func (d *Driver) Run(ctx context.Context, rate int) error {
	if rate <= 0 {
		rate = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Step()
		}
	}
}
