package graph

import (
	"context"
	"errors"
	"testing"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/logging"
	"schmoovin/motiongraph/logging/motion"
	"schmoovin/motiongraph/logging/sinks"
	"schmoovin/motiongraph/override"
	"schmoovin/motiongraph/param"
)

type speedConfig struct {
	Walk  data.Reference[float64]
	Limit data.Reference[int]
}

func (c speedConfig) Instantiate(m data.Map) Config {
	out := c
	out.Walk.CheckReference(m)
	out.Limit.CheckReference(m)
	return &out
}

func testTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := NewTemplate("hero",
		[]ParameterDef{
			{Name: "speed", Kind: param.KindFloat, Float: 1.5},
			{Name: "jumps", Kind: param.KindInt, Int: 2},
			{Name: "sprint", Kind: param.KindSwitch},
			{Name: "jump", Kind: param.KindTrigger},
			{Name: "ladder", Kind: param.KindTransform, Reset: ResetManual},
			{Name: "impulse", Kind: param.KindVector},
			{Name: "footstep", Kind: param.KindEvent},
		},
		[]DataDef{
			{Name: "walk_speed", Kind: data.KindFloat, Float: 1.0},
			{Name: "air_jumps", Kind: data.KindInt, Int: 1},
			{Name: "can_sprint", Kind: data.KindBool, Bool: true},
		},
	)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	walk, _ := TemplateData[float64](tmpl, key.Of("walk_speed"))
	jumps, _ := TemplateData[int](tmpl, key.Of("air_jumps"))
	if err := tmpl.AddConfig("speeds", speedConfig{
		Walk:  data.Ref(walk, 0.5),
		Limit: data.Ref(jumps, 0),
	}); err != nil {
		t.Fatalf("add config: %v", err)
	}
	return tmpl
}

func TestNewTemplateRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name   string
		params []ParameterDef
		datas  []DataDef
		want   error
	}{
		{name: "empty parameter name", params: []ParameterDef{{Kind: param.KindFloat}}, want: ErrEmptyName},
		{name: "duplicate parameter", params: []ParameterDef{{Name: "a", Kind: param.KindFloat}, {Name: "a", Kind: param.KindInt}}, want: ErrDuplicateKey},
		{name: "unknown parameter kind", params: []ParameterDef{{Name: "a", Kind: param.Kind(99)}}, want: ErrUnknownKind},
		{name: "duplicate data", datas: []DataDef{{Name: "d", Kind: data.KindInt}, {Name: "d", Kind: data.KindFloat}}, want: ErrDuplicateKey},
		{name: "unknown data kind", datas: []DataDef{{Name: "d", Kind: data.Kind(42)}}, want: ErrUnknownKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTemplate("t", tc.params, tc.datas); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := NewTemplate(" ", nil, nil); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected empty template name error, got %v", err)
	}
}

func TestParameterAndDataNamespacesAreSeparate(t *testing.T) {
	_, err := NewTemplate("t",
		[]ParameterDef{{Name: "speed", Kind: param.KindFloat}},
		[]DataDef{{Name: "speed", Kind: data.KindFloat}},
	)
	if err != nil {
		t.Fatalf("expected shared name across namespaces to be allowed, got %v", err)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	tmpl := testTemplate(t)
	ctx := context.Background()
	mem := sinks.NewMemory()
	a, err := tmpl.Instantiate(ctx, InstanceOptions{Publisher: mem})
	if err != nil {
		t.Fatalf("instantiate a: %v", err)
	}
	b, err := tmpl.Instantiate(ctx, InstanceOptions{Publisher: mem})
	if err != nil {
		t.Fatalf("instantiate b: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct instance ids")
	}

	speed := key.Of("speed")
	if !a.SetFloat(speed, 9) {
		t.Fatalf("expected speed parameter on instance")
	}
	fa, _ := a.Float(speed)
	fb, _ := b.Float(speed)
	if fa.Value() != 9 || fb.Value() != 1.5 {
		t.Fatalf("expected independent parameters, got %v and %v", fa.Value(), fb.Value())
	}

	da, _ := DataOf[float64](a, key.Of("walk_speed"))
	da.AddOverride(func(float64) float64 { return 4 })
	db, _ := DataOf[float64](b, key.Of("walk_speed"))
	if db.Value() != 1.0 {
		t.Fatalf("expected override on a to leave b untouched, got %v", db.Value())
	}
	tmplWalk, _ := TemplateData[float64](tmpl, key.Of("walk_speed"))
	if tmplWalk.Value() != 1.0 || tmplWalk.Overrides() != 0 {
		t.Fatalf("expected template data untouched")
	}

	if got := len(mem.OfType(motion.EventInstanceCreated)); got != 2 {
		t.Fatalf("expected two lifecycle events, got %d", got)
	}
}

func TestConfigReferencesBindToInstanceData(t *testing.T) {
	tmpl := testTemplate(t)
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: logging.NopPublisher()})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	cfg, ok := ConfigOf[*speedConfig](inst, "speeds")
	if !ok {
		t.Fatalf("expected speeds config on instance")
	}
	if !cfg.Walk.Bound() || cfg.Walk.Value() != 1.0 {
		t.Fatalf("expected bound walk reference reading 1.0, got bound=%v value=%v", cfg.Walk.Bound(), cfg.Walk.Value())
	}
	walk, _ := DataOf[float64](inst, key.Of("walk_speed"))
	walk.AddOverride(func(v float64) float64 { return v * 3 })
	if cfg.Walk.Value() != 3.0 {
		t.Fatalf("expected reference to follow instance data, got %v", cfg.Walk.Value())
	}
	if cfg.Limit.Value() != 1 {
		t.Fatalf("expected int reference to read 1, got %d", cfg.Limit.Value())
	}
	if _, ok := ConfigOf[*speedConfig](inst, "missing"); ok {
		t.Fatalf("expected missing config lookup to fail")
	}
}

func TestLookupMissesAreNotErrors(t *testing.T) {
	tmpl := testTemplate(t)
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: logging.NopPublisher()})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if inst.SetFloat(key.Of("glide"), 1) {
		t.Fatalf("expected absent parameter to report false")
	}
	if inst.SetFloat(key.Of("jumps"), 1) {
		t.Fatalf("expected wrong kind to report false")
	}
	if _, ok := inst.Switch(key.Of("speed")); ok {
		t.Fatalf("expected typed lookup to reject a float")
	}
	if !inst.SetInt(key.Of("jumps"), 0) || !inst.FireTrigger(key.Of("jump")) || !inst.InvokeEvent(key.Of("footstep")) {
		t.Fatalf("expected setters to find authored parameters")
	}
	if !inst.SetVector(key.Of("impulse"), param.Vec3{Y: 1}) {
		t.Fatalf("expected vector setter to find impulse")
	}
}

type rung struct{ pos param.Vec3 }

func (r *rung) Position() param.Vec3 { return r.pos }

func TestTickHonoursResetPolicy(t *testing.T) {
	tmpl := testTemplate(t)
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: logging.NopPublisher()})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	node := &rung{}
	inst.SetTransform(key.Of("ladder"), node)
	inst.SetFloat(key.Of("speed"), 7)
	inst.FireTrigger(key.Of("jump"))

	inst.Tick()
	if inst.TickCount() != 1 {
		t.Fatalf("expected tick count 1, got %d", inst.TickCount())
	}
	speed, _ := inst.Float(key.Of("speed"))
	if speed.Value() != 1.5 {
		t.Fatalf("expected speed reset to start, got %v", speed.Value())
	}
	jump, _ := inst.Trigger(key.Of("jump"))
	if jump.PeekTrigger() {
		t.Fatalf("expected trigger cleared by tick")
	}
	ladder, _ := inst.Transform(key.Of("ladder"))
	if ladder.Value() != node {
		t.Fatalf("expected manual transform to survive tick")
	}
}

func TestDiagnosticsReachPublisher(t *testing.T) {
	tmpl := testTemplate(t)
	mem := sinks.NewMemory()
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: mem})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	sprint, _ := inst.Switch(key.Of("sprint"))
	sprint.RemoveBlocker()
	if sprint.Blockers() != 0 {
		t.Fatalf("expected clamped blockers, got %d", sprint.Blockers())
	}
	events := mem.OfType(motion.EventBlockerUnderflow)
	if len(events) != 1 {
		t.Fatalf("expected one underflow event, got %d", len(events))
	}
	if events[0].Severity != logging.SeverityError {
		t.Fatalf("expected error severity, got %v", events[0].Severity)
	}
	payload, ok := events[0].Payload.(motion.BlockerUnderflowPayload)
	if !ok || payload.Parameter != "sprint" || payload.Kind != "switch" {
		t.Fatalf("unexpected payload %#v", events[0].Payload)
	}

	inst.FireTrigger(key.Of("jump"))
	inst.Tick()
	if got := len(mem.OfType(motion.EventTriggerUnconsumed)); got != 1 {
		t.Fatalf("expected unconsumed trigger diagnostic, got %d", got)
	}

	inst.SetTransform(key.Of("ladder"), rope{knots: []param.Vec3{{Y: 1}}})
	rejected := mem.OfType(motion.EventNodeRejected)
	if len(rejected) != 1 {
		t.Fatalf("expected one rejected node, got %d", len(rejected))
	}
	if p, ok := rejected[0].Payload.(motion.NodeRejectedPayload); !ok || p.Parameter != "ladder" || p.Node != "graph.rope" {
		t.Fatalf("unexpected payload %#v", rejected[0].Payload)
	}
	if ladder, _ := inst.Transform(key.Of("ladder")); ladder.IsSet() {
		t.Fatalf("expected rejected node to leave the transform empty")
	}
}

type rope struct{ knots []param.Vec3 }

func (r rope) Position() param.Vec3 { return r.knots[0] }

func TestAddOverridesIgnoresNilAsset(t *testing.T) {
	tmpl := testTemplate(t)
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: logging.NopPublisher(), Overrides: []*override.Asset{nil}})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	in, err := inst.AddOverrides(nil)
	if in != nil || err != nil {
		t.Fatalf("expected nil asset to install nothing, got %v, %v", in, err)
	}
	if len(inst.Installations()) != 0 {
		t.Fatalf("expected no installations")
	}
}

func TestOverridesInstallAndRemove(t *testing.T) {
	tmpl := testTemplate(t)
	mem := sinks.NewMemory()
	base, err := override.New("base", "hero",
		override.FloatEntry("walk_speed", 3.5),
		override.IntEntry("missing", 4),
		override.BoolEntry("air_jumps", true),
	)
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: mem, Overrides: []*override.Asset{base}})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	walk, _ := DataOf[float64](inst, key.Of("walk_speed"))
	if walk.Value() != 3.5 {
		t.Fatalf("expected overridden walk speed, got %v", walk.Value())
	}
	if len(mem.OfType(motion.EventOverrideStale)) != 1 || len(mem.OfType(motion.EventOverrideKindMismatch)) != 1 {
		t.Fatalf("expected stale and mismatch diagnostics, got %d events", len(mem.Events()))
	}

	boost, err := override.New("boost", "hero", override.FloatEntry("walk_speed", 6))
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	in, err := inst.AddOverrides(boost)
	if err != nil {
		t.Fatalf("add overrides: %v", err)
	}
	if walk.Value() != 6 {
		t.Fatalf("expected later asset to win, got %v", walk.Value())
	}
	if !inst.RemoveOverrides(in) || inst.RemoveOverrides(in) {
		t.Fatalf("expected removal to succeed exactly once")
	}
	if walk.Value() != 3.5 {
		t.Fatalf("expected earlier asset after removal, got %v", walk.Value())
	}

	inst.Close()
	if walk.Value() != 1.0 || len(inst.Installations()) != 0 {
		t.Fatalf("expected base value after close, got %v", walk.Value())
	}
}

func TestInstantiateRejectsForeignAsset(t *testing.T) {
	tmpl := testTemplate(t)
	other, err := override.New("villain", "villain", override.FloatEntry("walk_speed", 2))
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	_, err = tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: logging.NopPublisher(), Overrides: []*override.Asset{other}})
	if !errors.Is(err, ErrTemplateMismatch) {
		t.Fatalf("expected template mismatch, got %v", err)
	}
}

func TestTracePublishesObservableChanges(t *testing.T) {
	tmpl := testTemplate(t)
	mem := sinks.NewMemory()
	inst, err := tmpl.Instantiate(context.Background(), InstanceOptions{Publisher: mem, Trace: true})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	inst.SetFloat(key.Of("speed"), 2)
	inst.SetFloat(key.Of("speed"), 2)
	inst.InvokeEvent(key.Of("footstep"))
	changes := mem.OfType(motion.EventParameterChanged)
	if len(changes) != 2 {
		t.Fatalf("expected two change events, got %d", len(changes))
	}
	first := changes[0].Payload.(motion.ParameterChangedPayload)
	if first.Parameter != "speed" || first.Value != 2.0 {
		t.Fatalf("unexpected payload %#v", first)
	}

	inst.Close()
	inst.SetFloat(key.Of("speed"), 5)
	if got := len(mem.OfType(motion.EventParameterChanged)); got != 2 {
		t.Fatalf("expected tracing to stop after close, got %d", got)
	}
}
