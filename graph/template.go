// Package graph ties parameters, data and configuration together into a
// shared Template and per-character Instances built from it.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/param"
)

var (
	ErrEmptyName        = errors.New("graph: empty name")
	ErrDuplicateKey     = errors.New("graph: duplicate key")
	ErrUnknownKind      = errors.New("graph: unknown kind")
	ErrTemplateMismatch = errors.New("graph: override asset targets another template")
)

// ResetPolicy says whether Tick resets a parameter.
type ResetPolicy int

const (
	// ResetEveryTick parameters are reset at the start of every tick.
	ResetEveryTick ResetPolicy = iota
	// ResetManual parameters keep their value until a collaborator changes
	// it, e.g. the ladder a character is attached to.
	ResetManual
)

// ParameterDef is the authored form of a parameter. Only the start value
// field matching Kind is used.
type ParameterDef struct {
	Name   string
	Kind   param.Kind
	Float  float64
	Int    int
	Switch bool
	Vector param.Vec3
	Reset  ResetPolicy
}

// DataDef is the authored form of a Data entry.
type DataDef struct {
	Name  string
	Kind  data.Kind
	Bool  bool
	Int   int
	Float float64
}

// Config is a configuration block that may embed data References. The
// template holds one copy; every instance gets its own, bound to the
// instance arena through m.
type Config interface {
	Instantiate(m data.Map) Config
}

// Template is the shared definition instances are built from. It must not
// be modified once instances exist.
type Template struct {
	name     string
	defs     []ParameterDef
	protos   []param.Parameter
	policies []ResetPolicy
	byKey    map[key.Key]int
	arena    *data.Arena
	configs  map[string]Config
}

func NewTemplate(name string, params []ParameterDef, datas []DataDef) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: template", ErrEmptyName)
	}
	t := &Template{
		name:     name,
		defs:     append([]ParameterDef(nil), params...),
		protos:   make([]param.Parameter, 0, len(params)),
		policies: make([]ResetPolicy, 0, len(params)),
		byKey:    make(map[key.Key]int, len(params)),
		arena:    data.NewArena(),
		configs:  make(map[string]Config),
	}
	names := make(map[key.Key]string, len(params))
	for _, def := range params {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: parameter in template %q", ErrEmptyName, name)
		}
		k := key.Intern(def.Name)
		if prev, dup := names[k]; dup {
			return nil, fmt.Errorf("%w: parameter %q collides with %q", ErrDuplicateKey, def.Name, prev)
		}
		p, err := newParameter(k, def)
		if err != nil {
			return nil, err
		}
		names[k] = def.Name
		t.byKey[k] = len(t.protos)
		t.protos = append(t.protos, p)
		t.policies = append(t.policies, def.Reset)
	}
	for _, def := range datas {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: data in template %q", ErrEmptyName, name)
		}
		entry, err := newData(def)
		if err != nil {
			return nil, err
		}
		if _, err := t.arena.Add(entry); err != nil {
			if errors.Is(err, data.ErrDuplicateID) {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
			}
			return nil, err
		}
	}
	return t, nil
}

func newParameter(k key.Key, def ParameterDef) (param.Parameter, error) {
	opts := param.Options{}
	switch def.Kind {
	case param.KindFloat:
		return param.NewFloat(k, def.Float, opts), nil
	case param.KindInt:
		return param.NewInt(k, def.Int, opts), nil
	case param.KindSwitch:
		return param.NewSwitch(k, def.Switch, opts), nil
	case param.KindTrigger:
		return param.NewTrigger(k, opts), nil
	case param.KindTransform:
		return param.NewTransform(k, opts), nil
	case param.KindVector:
		return param.NewVector(k, def.Vector, opts), nil
	case param.KindEvent:
		return param.NewEvent(k, opts), nil
	default:
		return nil, fmt.Errorf("%w %v for parameter %q", ErrUnknownKind, def.Kind, def.Name)
	}
}

func newData(def DataDef) (data.Entry, error) {
	switch def.Kind {
	case data.KindBool:
		return data.New(def.Name, def.Bool), nil
	case data.KindInt:
		return data.New(def.Name, def.Int), nil
	case data.KindFloat:
		return data.New(def.Name, def.Float), nil
	default:
		return nil, fmt.Errorf("%w %v for data %q", ErrUnknownKind, def.Kind, def.Name)
	}
}

func (t *Template) Name() string { return t.name }

// Data is the template arena. Config blocks build their References from
// the Data found here.
func (t *Template) Data() *data.Arena { return t.arena }

// Parameters returns the authored definitions in template order.
func (t *Template) Parameters() []ParameterDef {
	return append([]ParameterDef(nil), t.defs...)
}

// KeyFor interns name. Call it while loading, never per tick.
func (t *Template) KeyFor(name string) key.Key {
	return key.Intern(name)
}

// Has reports whether the template defines a parameter under k.
func (t *Template) Has(k key.Key) bool {
	_, ok := t.byKey[k]
	return ok
}

// AddConfig registers a configuration block under name.
func (t *Template) AddConfig(name string, cfg Config) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: config in template %q", ErrEmptyName, t.name)
	}
	if _, dup := t.configs[name]; dup {
		return fmt.Errorf("%w: config %q", ErrDuplicateKey, name)
	}
	t.configs[name] = cfg
	return nil
}

// TemplateData returns the template's Data under k when it carries T.
func TemplateData[T data.Value](t *Template, k key.Key) (*data.Data[T], bool) {
	return data.Get[T](t.arena, k)
}
