package block

import "testing"

func TestStateEqual(t *testing.T) {
	a := New("CHEST", PropFacing, "north", PropChestType, ChestSingle)
	b := New("CHEST", PropChestType, ChestSingle, PropFacing, "north")
	if !a.Equal(b) {
		t.Fatalf("expected equal: %s vs %s", a, b)
	}
	if a.Equal(b.With(PropFacing, "south")) {
		t.Fatalf("expected facing difference to break equality")
	}
	if a.Equal(New("CHEST", PropFacing, "north")) {
		t.Fatalf("expected missing property to break equality")
	}
	if a.Equal(New("TRAPPED_CHEST", PropFacing, "north", PropChestType, ChestSingle)) {
		t.Fatalf("expected kind difference to break equality")
	}
}

func TestStateWith_DoesNotMutate(t *testing.T) {
	a := New("END_PORTAL_FRAME", PropEye, "false")
	b := a.With(PropEye, "true")
	if v, _ := a.Bool(PropEye); v {
		t.Fatalf("With mutated receiver: %s", a)
	}
	if v, ok := b.Bool(PropEye); !ok || !v {
		t.Fatalf("With did not set property: %s", b)
	}
	if got := b.String(); got != "END_PORTAL_FRAME[eye=true]" {
		t.Fatalf("String()=%q", got)
	}
}
