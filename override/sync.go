package override

import (
	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
)

// SyncReport lists what Sync changed.
type SyncReport struct {
	Added   []key.Key
	Pruned  []key.Key
	Retyped []key.Key
}

func (r SyncReport) Changed() bool {
	return len(r.Added)+len(r.Pruned)+len(r.Retyped) > 0
}

// Sync makes the table hold exactly one entry per Data in arena, in arena
// order. Missing entries default to the Data's current value, entries whose
// kind no longer matches are reset the same way, and entries for ids the
// arena does not have are pruned. Existing values are kept.
func (a *Asset) Sync(arena *data.Arena) SyncReport {
	var report SyncReport
	next := make([]Entry, 0, arena.Len())
	live := make(map[key.Key]struct{}, arena.Len())

	arena.Each(func(d data.Entry) {
		live[d.ID()] = struct{}{}
		idx, ok := a.index[d.ID()]
		switch {
		case !ok:
			next = append(next, defaultEntry(d))
			report.Added = append(report.Added, d.ID())
		case a.entries[idx].Kind != d.Kind():
			next = append(next, defaultEntry(d))
			report.Retyped = append(report.Retyped, d.ID())
		default:
			e := a.entries[idx]
			e.Name = d.Name()
			next = append(next, e)
		}
	})

	for _, e := range a.entries {
		if _, ok := live[e.ID]; !ok {
			report.Pruned = append(report.Pruned, e.ID)
		}
	}

	a.entries = next
	a.index = make(map[key.Key]int, len(next))
	for i, e := range next {
		a.index[e.ID] = i
	}
	return report
}

func defaultEntry(d data.Entry) Entry {
	e := Entry{ID: d.ID(), Name: d.Name(), Kind: d.Kind()}
	switch typed := d.(type) {
	case *data.Data[bool]:
		e.Bool = typed.Value()
	case *data.Data[int]:
		e.Int = typed.Value()
	case *data.Data[float64]:
		e.Float = typed.Value()
	}
	return e
}
