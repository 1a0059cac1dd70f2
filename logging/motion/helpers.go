package motion

import (
	"context"

	"schmoovin/motiongraph/logging"
)

const (
	// EventBlockerUnderflow is emitted when a blocker is released that was never acquired.
	EventBlockerUnderflow logging.EventType = "motion.blocker_underflow"
	// EventTriggerUnconsumed is emitted when a trigger is reset without any consumer checking it.
	EventTriggerUnconsumed logging.EventType = "motion.trigger_unconsumed"
	// EventParameterChanged is emitted for every observable parameter change while tracing.
	EventParameterChanged logging.EventType = "motion.parameter_changed"
	// EventNodeRejected is emitted when a transform is handed a node it cannot compare.
	EventNodeRejected logging.EventType = "motion.node_rejected"
	// EventOverrideStale is emitted when an override asset names data the graph does not have.
	EventOverrideStale logging.EventType = "motion.override_stale"
	// EventOverrideKindMismatch is emitted when an override entry carries the wrong payload kind.
	EventOverrideKindMismatch logging.EventType = "motion.override_kind_mismatch"
	// EventInstanceCreated is emitted once a graph instance has been built and its overrides installed.
	EventInstanceCreated logging.EventType = "motion.instance_created"
)

// ParameterRef names a parameter as a log target.
func ParameterRef(name string) logging.EntityRef {
	return logging.EntityRef{ID: name, Kind: logging.EntityKindParameter}
}

// DataRef names a data entry as a log target.
func DataRef(name string) logging.EntityRef {
	return logging.EntityRef{ID: name, Kind: logging.EntityKindData}
}

// GraphRef names a graph instance as the actor of an event.
func GraphRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindGraph}
}

// BlockerUnderflowPayload describes an unbalanced RemoveBlocker call.
type BlockerUnderflowPayload struct {
	Parameter string `json:"parameter"`
	Kind      string `json:"kind"`
}

// BlockerUnderflow publishes a contract violation. The counter has already
// been clamped by the caller.
func BlockerUnderflow(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BlockerUnderflowPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBlockerUnderflow,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{ParameterRef(payload.Parameter)},
		Severity: logging.SeverityError,
		Category: logging.CategoryParameters,
		Payload:  payload,
	})
}

type NodeRejectedPayload struct {
	Parameter string `json:"parameter"`
	Node      string `json:"node"`
}

// NodeRejected publishes a transform write that was refused. The transform
// still holds its previous node.
func NodeRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload NodeRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNodeRejected,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{ParameterRef(payload.Parameter)},
		Severity: logging.SeverityError,
		Category: logging.CategoryParameters,
		Payload:  payload,
	})
}

type TriggerUnconsumedPayload struct {
	Parameter string `json:"parameter"`
}

func TriggerUnconsumed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload TriggerUnconsumedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTriggerUnconsumed,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{ParameterRef(payload.Parameter)},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryParameters,
		Payload:  payload,
	})
}

// ParameterChangedPayload carries the new observable value. Value is nil
// for events and cleared transforms.
type ParameterChangedPayload struct {
	Parameter string `json:"parameter"`
	Kind      string `json:"kind"`
	Value     any    `json:"value,omitempty"`
}

func ParameterChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ParameterChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventParameterChanged,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{ParameterRef(payload.Parameter)},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryParameters,
		Payload:  payload,
	})
}

// OverridePayload identifies one override asset entry.
type OverridePayload struct {
	Asset    string `json:"asset"`
	ID       uint32 `json:"id"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Expected string `json:"expected,omitempty"`
}

func OverrideStale(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload OverridePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventOverrideStale,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: payload.Asset, Kind: logging.EntityKindOverride}},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryOverrides,
		Payload:  payload,
	})
}

func OverrideKindMismatch(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload OverridePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventOverrideKindMismatch,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: payload.Asset, Kind: logging.EntityKindOverride}, DataRef(payload.Name)},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryOverrides,
		Payload:  payload,
	})
}

// InstanceCreatedPayload summarises a freshly built graph instance.
type InstanceCreatedPayload struct {
	Template   string   `json:"template"`
	Parameters int      `json:"parameters"`
	Data       int      `json:"data"`
	Overrides  []string `json:"overrides,omitempty"`
	Installed  int      `json:"installed"`
}

func InstanceCreated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload InstanceCreatedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventInstanceCreated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}
