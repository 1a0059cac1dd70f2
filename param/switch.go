package param

import "schmoovin/motiongraph/key"

// Switch is a latching boolean with a momentary hold and a blocker gate.
// Its observable value is false while any blocker is held, otherwise
// rawOn || hold. The latched value resets lazily like the numeric kinds.
type Switch struct {
	base
	start    bool
	rawOn    bool
	pending  bool
	hold     bool
	blockers int
	changed  listeners[bool]
	reporter Reporter
}

func NewSwitch(k key.Key, start bool, opts Options) *Switch {
	return &Switch{base: base{key: k}, start: start, rawOn: start, reporter: opts.reporter()}
}

func (*Switch) Kind() Kind { return KindSwitch }

func (s *Switch) observed() bool {
	if s.blockers > 0 {
		return false
	}
	raw := s.rawOn
	if s.pending {
		raw = s.start
	}
	return raw || s.hold
}

func (s *Switch) resolve() {
	if s.pending {
		s.rawOn = s.start
		s.pending = false
	}
}

// mutate applies fn and emits only if the observable value flipped.
func (s *Switch) mutate(fn func()) {
	before := s.observed()
	fn()
	if after := s.observed(); after != before {
		s.changed.emit(after)
	}
}

func (s *Switch) On() bool {
	s.resolve()
	return s.observed()
}

// RawOn is the latched value underneath hold and blockers.
func (s *Switch) RawOn() bool {
	s.resolve()
	return s.rawOn
}

func (s *Switch) Held() bool    { return s.hold }
func (s *Switch) Blockers() int { return s.blockers }

func (s *Switch) StartValue() bool     { return s.start }
func (s *Switch) SetStartValue(v bool) { s.start = v }

func (s *Switch) SetOn(on bool) {
	s.mutate(func() {
		s.pending = false
		s.rawOn = on
	})
}

func (s *Switch) Toggle() {
	s.mutate(func() {
		s.resolve()
		s.rawOn = !s.rawOn
	})
}

func (s *Switch) Hold(held bool) {
	s.mutate(func() { s.hold = held })
}

// SetInput applies one frame of input: an optional toggle edge plus the
// current hold state. At most one change event fires.
func (s *Switch) SetInput(toggle, held bool) {
	s.mutate(func() {
		if toggle {
			s.resolve()
			s.rawOn = !s.rawOn
		}
		s.hold = held
	})
}

func (s *Switch) AddBlocker() {
	s.mutate(func() { s.blockers++ })
}

// RemoveBlocker releases one blocker. An unbalanced call is reported and
// the count stays at zero.
func (s *Switch) RemoveBlocker() {
	if s.blockers == 0 {
		s.reporter.BlockerUnderflow(s.key, KindSwitch)
		return
	}
	s.mutate(func() { s.blockers-- })
}

// Block acquires a blocker and returns its release.
func (s *Switch) Block() Release {
	s.AddBlocker()
	released := false
	return func() {
		if released {
			return
		}
		released = true
		s.RemoveBlocker()
	}
}

func (s *Switch) ResetValue() {
	s.mutate(func() { s.pending = true })
}

func (s *Switch) OnChange(fn func(bool)) Subscription { return s.changed.add(fn) }
