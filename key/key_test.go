package key

import "testing"

func TestOfIsStable(t *testing.T) {
	a := Of("ladder")
	b := Of("ladder")
	if a != b {
		t.Fatalf("expected stable hash, got %v and %v", a, b)
	}
	if a == Of("water") {
		t.Fatalf("expected distinct keys for distinct names")
	}
	if !a.Valid() {
		t.Fatalf("expected Of to never return None")
	}
}

func TestInternRecordsName(t *testing.T) {
	k := Intern("jumpImpulse")
	if got := Name(k); got != "jumpImpulse" {
		t.Fatalf("expected interned name, got %q", got)
	}
	if k != Of("jumpImpulse") {
		t.Fatalf("expected Intern and Of to agree")
	}
}

func TestNameFallsBackToHex(t *testing.T) {
	k := Of("never-interned-name")
	if got := Name(k); got != k.String() {
		t.Fatalf("expected hex fallback %q, got %q", k.String(), got)
	}
}
