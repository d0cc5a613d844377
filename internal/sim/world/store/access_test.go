package store

import (
	"testing"

	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
)

func TestStore_SetGetAcrossChunks(t *testing.T) {
	s := New()
	positions := []geom.Pos{{0, 0, 0}, {-1, 0, 0}, {15, 15, 15}, {16, -17, 33}}
	for i, p := range positions {
		s.SetBlock(p, block.New("STONE", "n", string(rune('a'+i))))
	}
	for i, p := range positions {
		got := s.BlockAt(p)
		if v, _ := got.Get("n"); got.Kind != "STONE" || v != string(rune('a'+i)) {
			t.Fatalf("BlockAt(%v)=%s", p, got)
		}
	}
	if got := s.BlockAt(geom.Pos{100, 100, 100}); !got.IsAir() {
		t.Fatalf("expected air for unloaded chunk, got %s", got)
	}
	if n := len(s.Entries()); n != len(positions) {
		t.Fatalf("Entries()=%d want %d", n, len(positions))
	}
}

func TestStore_SetAirDoesNotAllocateChunk(t *testing.T) {
	s := New()
	s.SetBlock(geom.Pos{40, 40, 40}, block.New(block.Air))
	if len(s.Chunks) != 0 {
		t.Fatalf("expected no chunk allocated for air write")
	}
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := New()
	p := geom.Pos{1, 2, 3}
	s.SetBlock(p, block.New("PLANK"))
	before := s.Digest()

	restore := s.Snapshot()
	s.SetBlock(p, block.New("STONE"))
	s.SetBlock(geom.Pos{99, 0, 0}, block.New("DIRT"))
	if s.Digest() == before {
		t.Fatalf("digest should change after writes")
	}
	restore()
	if got := s.BlockAt(p); got.Kind != "PLANK" {
		t.Fatalf("restore: got %s", got)
	}
	if s.Digest() != before {
		t.Fatalf("restore: digest mismatch")
	}
}
