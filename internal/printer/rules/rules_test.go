package rules

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/world/store"
)

func setup(t *testing.T) (*store.Store, *Oracle) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w := store.New()
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			w.SetBlock(geom.Pos{x, 0, z}, block.New("STONE"))
		}
	}
	return w, New(w, cats)
}

// clickOn builds a context that clicks the face of neighbor looking toward
// target, hitting the face center plus dy.
func clickOn(target geom.Pos, side, look geom.Direction, dy float64) placement.Context {
	hit := target.Center().Add(side.Vec().Mul(0.5)).Add(mgl64.Vec3{0, dy, 0})
	return placement.Context{
		HitPos:  hit,
		HitFace: side.Opposite(),
		Clicked: target.Offset(side),
		Look:    look,
	}
}

func TestEvaluate_DirectionalRules(t *testing.T) {
	w, o := setup(t)
	target := geom.Pos{0, 1, 0}
	w.SetBlock(geom.Pos{1, 1, 0}, block.New("PLANK"))

	cases := []struct {
		name string
		kind string
		ctx  placement.Context
		want block.State
	}{
		{"facing opposes look", "FURNACE", clickOn(target, geom.Down, geom.North, 0),
			block.New("FURNACE", block.PropFacing, "south")},
		{"pillar from side", "LOG", clickOn(target, geom.East, geom.North, 0),
			block.New("LOG", block.PropAxis, "x")},
		{"pillar from floor", "LOG", clickOn(target, geom.Down, geom.North, 0),
			block.New("LOG", block.PropAxis, "y")},
		{"slab on floor", "STONE_SLAB", clickOn(target, geom.Down, geom.North, 0),
			block.New("STONE_SLAB", block.PropHalf, "bottom")},
		{"slab upper side", "STONE_SLAB", clickOn(target, geom.East, geom.North, 0.25),
			block.New("STONE_SLAB", block.PropHalf, "top")},
		{"slab lower side", "STONE_SLAB", clickOn(target, geom.East, geom.North, -0.25),
			block.New("STONE_SLAB", block.PropHalf, "bottom")},
		{"stairs follow look", "PLANK_STAIRS", clickOn(target, geom.Down, geom.West, 0),
			block.New("PLANK_STAIRS", block.PropFacing, "west", block.PropHalf, "bottom")},
		{"torch on floor", "TORCH", clickOn(target, geom.Down, geom.North, 0),
			block.New("TORCH", block.PropFacing, "up")},
		{"torch on wall", "TORCH", clickOn(target, geom.East, geom.North, 0),
			block.New("TORCH", block.PropFacing, "west")},
		{"frame has no eye", "END_PORTAL_FRAME", clickOn(target, geom.Down, geom.South, 0),
			block.New("END_PORTAL_FRAME", block.PropFacing, "north", block.PropEye, "false")},
	}
	for _, c := range cases {
		got, ok := o.Evaluate(c.kind, c.ctx)
		if !ok || !got.Equal(c.want) {
			t.Fatalf("%s: got %s,%v want %s", c.name, got, ok, c.want)
		}
	}
}

func TestEvaluate_Rejections(t *testing.T) {
	w, o := setup(t)
	target := geom.Pos{0, 1, 0}

	// Nothing to click: the west neighbor is air.
	if _, ok := o.Evaluate("STONE", clickOn(target, geom.West, geom.North, 0)); ok {
		t.Fatalf("expected air neighbor to be rejected")
	}
	// Torch cannot hang from a ceiling.
	w.SetBlock(geom.Pos{0, 2, 0}, block.New("STONE"))
	if _, ok := o.Evaluate("TORCH", clickOn(target, geom.Up, geom.North, 0)); ok {
		t.Fatalf("expected torch from below to be rejected")
	}
	// Occupied target.
	w.SetBlock(target, block.New("DIRT"))
	if _, ok := o.Evaluate("STONE", clickOn(target, geom.Down, geom.North, 0)); ok {
		t.Fatalf("expected occupied target to be rejected")
	}
	// Tall grass is replaced.
	w.SetBlock(target, block.New("TALL_GRASS"))
	if _, ok := o.Evaluate("STONE", clickOn(target, geom.Down, geom.North, 0)); !ok {
		t.Fatalf("expected tall grass to be replaceable")
	}
}

func TestEvaluate_InteractiveNeighborNeedsSneak(t *testing.T) {
	w, o := setup(t)
	target := geom.Pos{0, 1, 0}
	w.SetBlock(geom.Pos{1, 1, 0}, block.New("FURNACE", block.PropFacing, "north"))

	ctx := clickOn(target, geom.East, geom.North, 0)
	if _, ok := o.Evaluate("PLANK", ctx); ok {
		t.Fatalf("expected click on furnace without sneaking to open it")
	}
	ctx.Sneaking = true
	if got, ok := o.Evaluate("PLANK", ctx); !ok || got.Kind != "PLANK" {
		t.Fatalf("sneaking placement: got %s,%v", got, ok)
	}
}

func TestEvaluate_ChestPairing(t *testing.T) {
	w, o := setup(t)
	target := geom.Pos{0, 1, 0}
	// Looking north gives a south-facing chest; its clockwise side is west.
	w.SetBlock(geom.Pos{-1, 1, 0}, block.New("CHEST", block.PropFacing, "south", block.PropChestType, block.ChestSingle))

	ctx := clickOn(target, geom.Down, geom.North, 0)
	got, ok := o.Evaluate("CHEST", ctx)
	want := block.New("CHEST", block.PropFacing, "south", block.PropChestType, block.ChestLeft)
	if !ok || !got.Equal(want) {
		t.Fatalf("pairing: got %s,%v want %s", got, ok, want)
	}
	if d, ok := PartnerOffset(got); !ok || d != geom.West {
		t.Fatalf("PartnerOffset=%s,%v want west", d, ok)
	}

	ctx.Sneaking = true
	got, _ = o.Evaluate("CHEST", ctx)
	if typ, _ := got.Get(block.PropChestType); typ != block.ChestSingle {
		t.Fatalf("sneaking should suppress pairing, got %s", got)
	}

	// A chest facing elsewhere does not pair.
	w.SetBlock(geom.Pos{-1, 1, 0}, block.New("CHEST", block.PropFacing, "east", block.PropChestType, block.ChestSingle))
	ctx.Sneaking = false
	got, _ = o.Evaluate("CHEST", ctx)
	if typ, _ := got.Get(block.PropChestType); typ != block.ChestSingle {
		t.Fatalf("mismatched facing should not pair, got %s", got)
	}
}
