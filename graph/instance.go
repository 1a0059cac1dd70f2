package graph

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/logging"
	"schmoovin/motiongraph/logging/motion"
	"schmoovin/motiongraph/logging/sinks"
	"schmoovin/motiongraph/override"
	"schmoovin/motiongraph/param"
)

// InstanceOptions configures Instantiate.
type InstanceOptions struct {
	// Publisher receives diagnostics. When nil, warnings and errors go to
	// stderr.
	Publisher logging.Publisher
	// Overrides are installed in order, so later assets win.
	Overrides []*override.Asset
	// Trace publishes every observable parameter change at debug severity.
	Trace bool
}

// Instance is one character's live copy of a template. It is owned by the
// simulation thread and is not safe for concurrent use.
type Instance struct {
	id       uuid.UUID
	template *Template
	params   []param.Parameter
	arena    *data.Arena
	configs  map[string]Config
	installs []*override.Installation
	traces   []param.Subscription
	pub      logging.Publisher
	tick     uint64
}

// Instantiate builds a fresh instance: new parameters at their authored
// start values, a new data arena with the template's slots, configuration
// blocks rebound to that arena, and the requested override assets.
func (t *Template) Instantiate(ctx context.Context, opts InstanceOptions) (*Instance, error) {
	for _, asset := range opts.Overrides {
		if asset == nil {
			continue
		}
		if asset.Template() != t.name {
			return nil, fmt.Errorf("%w: asset %q is for %q, template is %q", ErrTemplateMismatch, asset.Name(), asset.Template(), t.name)
		}
	}

	pub := opts.Publisher
	if pub == nil {
		pub = logging.Direct(sinks.NewConsole(os.Stderr), logging.SeverityWarn)
	}
	inst := &Instance{
		id:       uuid.New(),
		template: t,
		params:   make([]param.Parameter, len(t.protos)),
		arena:    t.arena.Clone(),
		configs:  make(map[string]Config, len(t.configs)),
		pub:      pub,
	}

	popts := param.Options{Reporter: reporter{inst: inst}}
	for i, proto := range t.protos {
		inst.params[i] = param.Clone(proto, popts)
	}
	for name, cfg := range t.configs {
		inst.configs[name] = cfg.Instantiate(inst.arena)
	}

	installed := 0
	names := make([]string, 0, len(opts.Overrides))
	for _, asset := range opts.Overrides {
		if asset == nil {
			continue
		}
		in := asset.Install(inst.arena, reporter{inst: inst})
		inst.installs = append(inst.installs, in)
		installed += in.Len()
		names = append(names, asset.Name())
	}

	if opts.Trace {
		inst.trace()
	}

	motion.InstanceCreated(ctx, inst.pub, inst.tick, inst.actor(), motion.InstanceCreatedPayload{
		Template:   t.name,
		Parameters: len(inst.params),
		Data:       inst.arena.Len(),
		Overrides:  names,
		Installed:  installed,
	}, nil)
	return inst, nil
}

func (i *Instance) ID() uuid.UUID       { return i.id }
func (i *Instance) Template() *Template { return i.template }
func (i *Instance) Data() *data.Arena   { return i.arena }

// TickCount is the number of Tick calls so far.
func (i *Instance) TickCount() uint64 { return i.tick }

func (i *Instance) actor() logging.EntityRef {
	return motion.GraphRef(i.id.String())
}

// Tick starts a new simulation step by resetting every parameter whose
// policy is ResetEveryTick, in template order. Call it once per step before
// locomotion logic runs.
func (i *Instance) Tick() {
	i.tick++
	for idx, p := range i.params {
		if i.template.policies[idx] == ResetEveryTick {
			p.ResetValue()
		}
	}
}

// Each visits parameters in template order.
func (i *Instance) Each(fn func(param.Parameter)) {
	for _, p := range i.params {
		fn(p)
	}
}

// Parameter returns the parameter under k. A miss means the feature is not
// present on this graph.
func (i *Instance) Parameter(k key.Key) (param.Parameter, bool) {
	idx, ok := i.template.byKey[k]
	if !ok {
		return nil, false
	}
	return i.params[idx], true
}

// Param returns the parameter under k when it is of type P.
func Param[P param.Parameter](i *Instance, k key.Key) (P, bool) {
	var zero P
	p, ok := i.Parameter(k)
	if !ok {
		return zero, false
	}
	typed, ok := p.(P)
	return typed, ok
}

func (i *Instance) Float(k key.Key) (*param.Float, bool)         { return Param[*param.Float](i, k) }
func (i *Instance) Int(k key.Key) (*param.Int, bool)             { return Param[*param.Int](i, k) }
func (i *Instance) Switch(k key.Key) (*param.Switch, bool)       { return Param[*param.Switch](i, k) }
func (i *Instance) Trigger(k key.Key) (*param.Trigger, bool)     { return Param[*param.Trigger](i, k) }
func (i *Instance) Transform(k key.Key) (*param.Transform, bool) { return Param[*param.Transform](i, k) }
func (i *Instance) Vector(k key.Key) (*param.Vector, bool)       { return Param[*param.Vector](i, k) }
func (i *Instance) Event(k key.Key) (*param.Event, bool)         { return Param[*param.Event](i, k) }

// DataOf returns the instance's Data under k when it carries T.
func DataOf[T data.Value](i *Instance, k key.Key) (*data.Data[T], bool) {
	return data.Get[T](i.arena, k)
}

func (i *Instance) Config(name string) (Config, bool) {
	cfg, ok := i.configs[name]
	return cfg, ok
}

// ConfigOf returns the named configuration block when it is of type C.
func ConfigOf[C Config](i *Instance, name string) (C, bool) {
	var zero C
	cfg, ok := i.configs[name]
	if !ok {
		return zero, false
	}
	typed, ok := cfg.(C)
	return typed, ok
}

// SetTransform points the Transform under k at n, or clears it when n is
// nil. It reports false when the graph has no such Transform.
func (i *Instance) SetTransform(k key.Key, n param.Node) bool {
	p, ok := i.Transform(k)
	if ok {
		p.SetValue(n)
	}
	return ok
}

func (i *Instance) SetVector(k key.Key, v param.Vec3) bool {
	p, ok := i.Vector(k)
	if ok {
		p.SetValue(v)
	}
	return ok
}

func (i *Instance) SetFloat(k key.Key, v float64) bool {
	p, ok := i.Float(k)
	if ok {
		p.SetValue(v)
	}
	return ok
}

func (i *Instance) SetInt(k key.Key, v int) bool {
	p, ok := i.Int(k)
	if ok {
		p.SetValue(v)
	}
	return ok
}

func (i *Instance) FireTrigger(k key.Key) bool {
	p, ok := i.Trigger(k)
	if ok {
		p.Trigger()
	}
	return ok
}

func (i *Instance) InvokeEvent(k key.Key) bool {
	p, ok := i.Event(k)
	if ok {
		p.Invoke()
	}
	return ok
}

// AddOverrides installs one more asset. Like Instantiate, it is meant for
// construction time, not mid-tick. A nil asset installs nothing.
func (i *Instance) AddOverrides(asset *override.Asset) (*override.Installation, error) {
	if asset == nil {
		return nil, nil
	}
	if asset.Template() != i.template.name {
		return nil, fmt.Errorf("%w: asset %q is for %q, template is %q", ErrTemplateMismatch, asset.Name(), asset.Template(), i.template.name)
	}
	in := asset.Install(i.arena, reporter{inst: i})
	i.installs = append(i.installs, in)
	return in, nil
}

// RemoveOverrides uninstalls an installation made on this instance.
func (i *Instance) RemoveOverrides(in *override.Installation) bool {
	idx := slices.Index(i.installs, in)
	if idx < 0 {
		return false
	}
	in.Remove()
	i.installs = slices.Delete(i.installs, idx, idx+1)
	return true
}

// Installations lists the override installations in installation order.
func (i *Instance) Installations() []*override.Installation {
	return append([]*override.Installation(nil), i.installs...)
}

// Close uninstalls every override and stops tracing.
func (i *Instance) Close() {
	for _, in := range i.installs {
		in.Remove()
	}
	i.installs = nil
	for _, sub := range i.traces {
		sub.Cancel()
	}
	i.traces = nil
}
