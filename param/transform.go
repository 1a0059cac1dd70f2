package param

import (
	"reflect"

	"schmoovin/motiongraph/key"
)

// Node is a spatial object an environment collaborator can hand to a
// graph. Implementations should be pointer types: Transform compares nodes
// by identity and rejects values that cannot be compared.
type Node interface {
	Position() Vec3
}

// Transform holds an optional reference to a Node.
type Transform struct {
	base
	node     Node
	changed  listeners[Node]
	reporter Reporter
}

func NewTransform(k key.Key, opts Options) *Transform {
	return &Transform{base: base{key: k}, reporter: opts.reporter()}
}

func (*Transform) Kind() Kind    { return KindTransform }
func (t *Transform) Value() Node { return t.node }
func (t *Transform) IsSet() bool { return t.node != nil }

func (t *Transform) SetValue(n Node) {
	if n != nil && !reflect.ValueOf(n).Comparable() {
		t.reporter.NodeRejected(t.key, n)
		return
	}
	if n == t.node {
		return
	}
	t.node = n
	t.changed.emit(n)
}

func (t *Transform) ResetValue() {
	t.SetValue(nil)
}

func (t *Transform) OnChange(fn func(Node)) Subscription { return t.changed.add(fn) }
