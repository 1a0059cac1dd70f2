package override

import "schmoovin/motiongraph/data"

// Reporter is told about entries that could not be installed. Neither case
// is fatal: the Data keeps its base value.
type Reporter interface {
	Stale(asset *Asset, e Entry)
	KindMismatch(asset *Asset, e Entry, want data.Kind)
}

// Installation is the set of overrides one asset installed into one arena.
type Installation struct {
	asset   *Asset
	removes []func() bool
}

func (in *Installation) Asset() *Asset { return in.asset }
func (in *Installation) Len() int      { return len(in.removes) }

// Remove uninstalls every override and returns how many were removed.
// Later calls remove nothing.
func (in *Installation) Remove() int {
	n := 0
	for _, remove := range in.removes {
		if remove() {
			n++
		}
	}
	in.removes = nil
	return n
}

// Install registers one replacement override per table entry against the
// matching Data in arena. Overrides append to each Data's chain, so among
// several assets the one installed last wins.
func (a *Asset) Install(arena *data.Arena, r Reporter) *Installation {
	in := &Installation{asset: a}
	for _, e := range a.entries {
		target, ok := arena.Find(e.ID)
		if !ok {
			if r != nil {
				r.Stale(a, e)
			}
			continue
		}
		if target.Kind() != e.Kind {
			if r != nil {
				r.KindMismatch(a, e, target.Kind())
			}
			continue
		}
		var remove func() bool
		switch e.Kind {
		case data.KindBool:
			remove, ok = installOne(target, a.Bools())
		case data.KindInt:
			remove, ok = installOne(target, a.Ints())
		default:
			remove, ok = installOne(target, a.Floats())
		}
		if ok {
			in.removes = append(in.removes, remove)
		}
	}
	return in
}

func installOne[T data.Value](target data.Entry, src data.Source[T]) (func() bool, bool) {
	d, ok := target.(*data.Data[T])
	if !ok {
		return nil, false
	}
	h, ok := d.AddOverrideFrom(src)
	if !ok {
		return nil, false
	}
	return func() bool { return d.RemoveOverride(h) }, true
}
