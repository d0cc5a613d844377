package schematic

import (
	"path/filepath"
	"testing"

	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
)

func TestRead_ShippedHut(t *testing.T) {
	s, err := Read("../../../configs/schematics/hut.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.ID != "hut" || len(s.Blocks) == 0 {
		t.Fatalf("unexpected schematic: %+v", s)
	}
	pl := s.Placements()
	if pl[0].Pos != (geom.Pos{0, 1, 0}) {
		t.Fatalf("anchor not applied: %v", pl[0].Pos)
	}
}

func TestWriteRead_Zstd(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.json.zst")
	in := &Schematic{
		ID:     "pair",
		Anchor: geom.Pos{5, 1, 5},
		Blocks: []Block{
			{Pos: geom.Pos{0, 0, 0}, State: block.New("CHEST", block.PropFacing, "north", block.PropChestType, block.ChestLeft)},
		},
	}
	if err := Write(p, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out.Blocks) != 1 || !out.Blocks[0].State.Equal(in.Blocks[0].State) {
		t.Fatalf("got %+v", out.Blocks)
	}
}

func TestParse_Rejects(t *testing.T) {
	dup := `{"id":"x","anchor":[0,0,0],"blocks":[{"pos":[0,0,0],"state":{"kind":"STONE"}},{"pos":[0,0,0],"state":{"kind":"DIRT"}}]}`
	cases := map[string]string{
		"missing anchor": `{"id":"x","blocks":[]}`,
		"short pos":      `{"id":"x","anchor":[0,0,0],"blocks":[{"pos":[0,0],"state":{"kind":"STONE"}}]}`,
		"duplicate":      dup,
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
