package inventory

import "testing"

func TestFindSlotAndTake(t *testing.T) {
	inv := New(4)
	if _, ok := inv.FindSlot("PLANK"); ok {
		t.Fatalf("empty inventory should not find PLANK")
	}
	inv.Add("STONE", 1)
	inv.Add("PLANK", 2)
	slot, ok := inv.FindSlot("PLANK")
	if !ok || slot != 1 {
		t.Fatalf("FindSlot(PLANK)=%d,%v want 1,true", slot, ok)
	}
	if !inv.Take(slot) || inv.Count("PLANK") != 1 {
		t.Fatalf("expected one PLANK left, got %d", inv.Count("PLANK"))
	}
	inv.Take(slot)
	if _, ok := inv.FindSlot("PLANK"); ok {
		t.Fatalf("expected PLANK slot cleared")
	}
	if inv.Take(slot) {
		t.Fatalf("take from empty slot should fail")
	}
}

func TestAdd_FullInventory(t *testing.T) {
	inv := New(1)
	if !inv.Add("STONE", 1) || inv.Add("DIRT", 1) {
		t.Fatalf("expected second distinct item to be rejected")
	}
	if !inv.Add("STONE", 3) || inv.Count("STONE") != 4 {
		t.Fatalf("expected STONE to stack, got %d", inv.Count("STONE"))
	}
}
