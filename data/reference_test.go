package data

import "testing"

func TestReferenceLiteralBeforeResolution(t *testing.T) {
	template := NewArena()
	speed := New("walkSpeed", 4.0)
	template.Add(speed)

	ref := Ref(speed, 2.5)
	if got := ref.Value(); got != 2.5 {
		t.Fatalf("expected literal before CheckReference, got %v", got)
	}
	if ref.Bound() {
		t.Fatalf("expected unbound reference")
	}
}

func TestReferenceTracksResolvedData(t *testing.T) {
	template := NewArena()
	speed := New("walkSpeed", 4.0)
	template.Add(speed)
	instance := template.Clone()

	ref := Ref(speed, 2.5)
	ref.CheckReference(instance)
	if !ref.Bound() {
		t.Fatalf("expected bound reference")
	}
	bound, _ := Get[float64](instance, speed.ID())
	if got := ref.Value(); got != 4 {
		t.Fatalf("expected instance value, got %v", got)
	}
	bound.SetBase(6)
	if got := ref.Value(); got != 6 {
		t.Fatalf("expected reference to track base change, got %v", got)
	}
	bound.AddOverride(func(float64) float64 { return 8 })
	if got := ref.Value(); got != 8 {
		t.Fatalf("expected reference to see overrides, got %v", got)
	}
	speed.SetBase(100)
	if got := ref.Value(); got != 8 {
		t.Fatalf("expected template changes to be invisible, got %v", got)
	}
}

func TestReferenceResolvesOnce(t *testing.T) {
	template := NewArena()
	speed := New("walkSpeed", 4.0)
	template.Add(speed)
	first := template.Clone()
	second := template.Clone()
	second.At(0).(*Data[float64]).SetBase(9)

	ref := Ref(speed, 0)
	ref.CheckReference(first)
	ref.CheckReference(second)
	if got := ref.Value(); got != 4 {
		t.Fatalf("expected reference to stay on first arena, got %v", got)
	}
}

func TestReferenceFallbacks(t *testing.T) {
	template := NewArena()
	speed := New("walkSpeed", 4.0)
	template.Add(speed)

	lit := Literal(3.0)
	lit.CheckReference(template)
	if lit.Bound() || lit.Value() != 3 {
		t.Fatalf("expected literal to stay literal")
	}

	mismatch := Ref(New("unowned", 1.0), 1.5)
	mismatch.CheckReference(template)
	if mismatch.Bound() || mismatch.Value() != 1.5 {
		t.Fatalf("expected reference to data outside an arena to read its literal")
	}

	unlinked := Ref(New("count", 1), 7)
	_, linked := unlinked.Target()
	if linked {
		t.Fatalf("expected unowned data to produce an unlinked reference")
	}

	typed := Ref(speed, 1.0)
	empty := NewArena()
	typed.CheckReference(empty)
	if typed.Bound() || typed.Value() != 1 {
		t.Fatalf("expected missing slot to fall back to literal")
	}

	var zero Reference[float64]
	zero.CheckReference(template)
	if zero.Bound() || zero.Value() != 0 {
		t.Fatalf("expected zero reference to read zero")
	}
}

func TestReferenceKindMismatch(t *testing.T) {
	template := NewArena()
	count := New("maxJumps", 2)
	template.Add(count)
	instance := NewArena()
	instance.Add(New("other", 1.5))

	ref := Ref(count, 1)
	ref.CheckReference(instance)
	if ref.Bound() || ref.Value() != 1 {
		t.Fatalf("expected payload mismatch to leave reference unbound")
	}
}
