// Package override implements override assets: externally authored tables
// that replace the values of a graph template's Data entries for every
// instance built with the asset.
package override

import (
	"errors"
	"fmt"
	"strings"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
)

// CurrentVersion is the newest document version this package understands.
const CurrentVersion = 1

var (
	ErrUnsupportedVersion = errors.New("override: unsupported version")
	ErrDuplicateEntry     = errors.New("override: duplicate entry")
	ErrMissingTemplate    = errors.New("override: missing template name")
)

// Entry is one replacement value keyed by a Data identity. Only the field
// matching Kind is meaningful.
type Entry struct {
	ID    key.Key
	Name  string
	Kind  data.Kind
	Bool  bool
	Int   int
	Float float64
}

// Value returns the payload selected by Kind.
func (e Entry) Value() any {
	switch e.Kind {
	case data.KindBool:
		return e.Bool
	case data.KindInt:
		return e.Int
	default:
		return e.Float
	}
}

func (e Entry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID.String()
}

// BoolEntry, IntEntry and FloatEntry build entries keyed by the hash of name.
func BoolEntry(name string, v bool) Entry {
	return Entry{ID: key.Intern(name), Name: name, Kind: data.KindBool, Bool: v}
}

func IntEntry(name string, v int) Entry {
	return Entry{ID: key.Intern(name), Name: name, Kind: data.KindInt, Int: v}
}

func FloatEntry(name string, v float64) Entry {
	return Entry{ID: key.Intern(name), Name: name, Kind: data.KindFloat, Float: v}
}

// Asset is shared and read-only once instances are being built from it.
// Sync and Set are authoring-time operations.
type Asset struct {
	name     string
	template string
	version  int
	entries  []Entry
	index    map[key.Key]int
}

// New validates entries and builds an asset bound to the named template.
func New(name, template string, entries ...Entry) (*Asset, error) {
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w (asset %q)", ErrMissingTemplate, name)
	}
	a := &Asset{
		name:     name,
		template: template,
		version:  CurrentVersion,
		entries:  make([]Entry, 0, len(entries)),
		index:    make(map[key.Key]int, len(entries)),
	}
	for _, e := range entries {
		if !e.ID.Valid() {
			return nil, fmt.Errorf("override: asset %q has an entry without id", name)
		}
		if _, dup := a.index[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s in asset %q", ErrDuplicateEntry, e.label(), name)
		}
		a.index[e.ID] = len(a.entries)
		a.entries = append(a.entries, e)
	}
	return a, nil
}

func (a *Asset) Name() string     { return a.name }
func (a *Asset) Template() string { return a.template }
func (a *Asset) Version() int     { return a.version }
func (a *Asset) Len() int         { return len(a.entries) }

// Entries returns a copy of the table in order.
func (a *Asset) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

func (a *Asset) Entry(id key.Key) (Entry, bool) {
	idx, ok := a.index[id]
	if !ok {
		return Entry{}, false
	}
	return a.entries[idx], true
}

// Set inserts or replaces the entry for e.ID.
func (a *Asset) Set(e Entry) {
	if idx, ok := a.index[e.ID]; ok {
		a.entries[idx] = e
		return
	}
	a.index[e.ID] = len(a.entries)
	a.entries = append(a.entries, e)
}

// Bools, Ints and Floats expose the table as override sources. Each
// returned function ignores its input: overrides here are replacements.
func (a *Asset) Bools() data.Source[bool] {
	return assetSource[bool]{asset: a, pick: func(e Entry) bool { return e.Bool }}
}

func (a *Asset) Ints() data.Source[int] {
	return assetSource[int]{asset: a, pick: func(e Entry) int { return e.Int }}
}

func (a *Asset) Floats() data.Source[float64] {
	return assetSource[float64]{asset: a, pick: func(e Entry) float64 { return e.Float }}
}

type assetSource[T data.Value] struct {
	asset *Asset
	pick  func(Entry) T
}

func (s assetSource[T]) OverrideFor(id key.Key) (data.Func[T], bool) {
	e, ok := s.asset.Entry(id)
	if !ok || e.Kind != data.KindOf[T]() {
		return nil, false
	}
	v := s.pick(e)
	return func(T) T { return v }, true
}
