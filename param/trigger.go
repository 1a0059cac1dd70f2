package param

import "schmoovin/motiongraph/key"

// Trigger is a one-shot flag. It stays set until the owning state machine
// calls ResetValue at the tick boundary, so every consumer in the tick can
// see it. Triggering while blocked is dropped, not queued.
type Trigger struct {
	base
	triggered  bool
	wasChecked bool
	blockers   int
	changed    listeners[bool]
	reporter   Reporter
}

func NewTrigger(k key.Key, opts Options) *Trigger {
	return &Trigger{base: base{key: k}, reporter: opts.reporter()}
}

func (*Trigger) Kind() Kind { return KindTrigger }

func (t *Trigger) Trigger() {
	if t.blockers > 0 || t.triggered {
		return
	}
	t.triggered = true
	t.changed.emit(true)
}

// PeekTrigger reads the flag without marking it observed.
func (t *Trigger) PeekTrigger() bool {
	return t.triggered
}

// CheckTrigger reads the flag and records that a consumer looked at it.
func (t *Trigger) CheckTrigger() bool {
	t.wasChecked = true
	return t.triggered
}

func (t *Trigger) WasChecked() bool { return t.wasChecked }
func (t *Trigger) Blockers() int    { return t.blockers }

func (t *Trigger) ResetValue() {
	if t.triggered {
		if !t.wasChecked {
			t.reporter.TriggerUnconsumed(t.key)
		}
		t.triggered = false
		t.changed.emit(false)
	}
	t.wasChecked = false
}

// AddBlocker also cancels a trigger that was latched but not yet reset.
func (t *Trigger) AddBlocker() {
	t.blockers++
	if t.triggered {
		t.triggered = false
		t.changed.emit(false)
	}
}

func (t *Trigger) RemoveBlocker() {
	if t.blockers == 0 {
		t.reporter.BlockerUnderflow(t.key, KindTrigger)
		return
	}
	t.blockers--
}

func (t *Trigger) Block() Release {
	t.AddBlocker()
	released := false
	return func() {
		if released {
			return
		}
		released = true
		t.RemoveBlocker()
	}
}

func (t *Trigger) OnChange(fn func(bool)) Subscription { return t.changed.add(fn) }
