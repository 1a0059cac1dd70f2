package graph

import (
	"context"
	"fmt"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/logging/motion"
	"schmoovin/motiongraph/override"
	"schmoovin/motiongraph/param"
)

// reporter routes parameter and override diagnostics to the instance's
// publisher.
type reporter struct {
	inst *Instance
}

var (
	_ param.Reporter    = reporter{}
	_ override.Reporter = reporter{}
)

func (r reporter) BlockerUnderflow(k key.Key, kind param.Kind) {
	motion.BlockerUnderflow(context.Background(), r.inst.pub, r.inst.tick, r.inst.actor(), motion.BlockerUnderflowPayload{
		Parameter: key.Name(k),
		Kind:      kind.String(),
	})
}

func (r reporter) TriggerUnconsumed(k key.Key) {
	motion.TriggerUnconsumed(context.Background(), r.inst.pub, r.inst.tick, r.inst.actor(), motion.TriggerUnconsumedPayload{
		Parameter: key.Name(k),
	})
}

func (r reporter) NodeRejected(k key.Key, n param.Node) {
	motion.NodeRejected(context.Background(), r.inst.pub, r.inst.tick, r.inst.actor(), motion.NodeRejectedPayload{
		Parameter: key.Name(k),
		Node:      fmt.Sprintf("%T", n),
	})
}

func (r reporter) Stale(asset *override.Asset, e override.Entry) {
	motion.OverrideStale(context.Background(), r.inst.pub, r.inst.tick, r.inst.actor(), motion.OverridePayload{
		Asset: asset.Name(),
		ID:    uint32(e.ID),
		Name:  e.Name,
		Kind:  e.Kind.String(),
	})
}

func (r reporter) KindMismatch(asset *override.Asset, e override.Entry, want data.Kind) {
	motion.OverrideKindMismatch(context.Background(), r.inst.pub, r.inst.tick, r.inst.actor(), motion.OverridePayload{
		Asset:    asset.Name(),
		ID:       uint32(e.ID),
		Name:     e.Name,
		Kind:     e.Kind.String(),
		Expected: want.String(),
	})
}

// tracer subscribes to every parameter and publishes each observable change.
type tracer struct {
	inst *Instance
}

func (i *Instance) trace() {
	t := tracer{inst: i}
	for _, p := range i.params {
		param.Visit(p, t)
	}
}

func (t tracer) publish(p param.Parameter, value any) {
	motion.ParameterChanged(context.Background(), t.inst.pub, t.inst.tick, t.inst.actor(), motion.ParameterChangedPayload{
		Parameter: key.Name(p.Key()),
		Kind:      p.Kind().String(),
		Value:     value,
	})
}

func (t tracer) keep(sub param.Subscription) {
	t.inst.traces = append(t.inst.traces, sub)
}

func (t tracer) VisitFloat(p *param.Float) {
	t.keep(p.OnChange(func(v float64) { t.publish(p, v) }))
}

func (t tracer) VisitInt(p *param.Int) {
	t.keep(p.OnChange(func(v int) { t.publish(p, v) }))
}

func (t tracer) VisitSwitch(p *param.Switch) {
	t.keep(p.OnChange(func(v bool) { t.publish(p, v) }))
}

func (t tracer) VisitTrigger(p *param.Trigger) {
	t.keep(p.OnChange(func(v bool) { t.publish(p, v) }))
}

func (t tracer) VisitTransform(p *param.Transform) {
	t.keep(p.OnChange(func(n param.Node) {
		if n == nil {
			t.publish(p, nil)
			return
		}
		t.publish(p, n.Position())
	}))
}

func (t tracer) VisitVector(p *param.Vector) {
	t.keep(p.OnChange(func(v param.Vec3) { t.publish(p, v) }))
}

func (t tracer) VisitEvent(p *param.Event) {
	t.keep(p.AddListener(func() { t.publish(p, nil) }))
}
