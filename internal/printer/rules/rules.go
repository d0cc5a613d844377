// Package rules is a reference placement-rule evaluator. It derives the
// resulting block state from the clicked face, hit point, look direction and
// neighboring blocks, the same inputs a game client's placement logic uses.
package rules

import (
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/world/logic/mathx"
)

// Placement rule names used in blocks.json.
const (
	Simple = "simple"
	Facing = "facing"
	Pillar = "pillar"
	Slab   = "slab"
	Stairs = "stairs"
	Wall   = "wall"
	Chest  = "chest"
	Frame  = "frame"
)

type World interface {
	BlockAt(p geom.Pos) block.State
}

// Oracle evaluates placements against a read-only world view.
type Oracle struct {
	world World
	cats  *catalogs.Catalogs
}

func New(w World, cats *catalogs.Catalogs) *Oracle {
	return &Oracle{world: w, cats: cats}
}

var _ placement.Oracle = (*Oracle)(nil)

func (o *Oracle) Evaluate(kind string, ctx placement.Context) (block.State, bool) {
	def, ok := o.cats.Def(kind)
	if !ok {
		return block.State{}, false
	}
	pos := ctx.PlacementPos()
	if !o.cats.Replaceable(o.world.BlockAt(pos)) {
		return block.State{}, false
	}
	clicked := o.world.BlockAt(ctx.Clicked)
	if !o.cats.Clickable(clicked) {
		return block.State{}, false
	}
	// Clicking a container opens it instead of placing.
	if o.cats.Interactive(clicked.Kind) && !ctx.Sneaking {
		return block.State{}, false
	}

	switch def.Placement {
	case Simple, "":
		return block.New(kind), true
	case Facing:
		return block.New(kind, block.PropFacing, ctx.HorizontalFacing().Opposite().String()), true
	case Pillar:
		return block.New(kind, block.PropAxis, ctx.HitFace.Axis().String()), true
	case Slab:
		return block.New(kind, block.PropHalf, half(ctx, pos)), true
	case Stairs:
		return block.New(kind,
			block.PropFacing, ctx.HorizontalFacing().String(),
			block.PropHalf, half(ctx, pos)), true
	case Wall:
		return o.wall(kind, ctx, clicked)
	case Chest:
		return o.chest(kind, ctx, pos), true
	case Frame:
		return block.New(kind,
			block.PropFacing, ctx.HorizontalFacing().Opposite().String(),
			block.PropEye, "false"), true
	}
	return block.State{}, false
}

// half picks the top half when the click lands on the upper part of the
// target cell or on the underside of the block above.
func half(ctx placement.Context, pos geom.Pos) string {
	switch ctx.HitFace {
	case geom.Down:
		return "top"
	case geom.Up:
		return "bottom"
	}
	if mathx.Frac(ctx.HitPos[1]-float64(pos[1])) > 0.5 {
		return "top"
	}
	return "bottom"
}

func (o *Oracle) wall(kind string, ctx placement.Context, clicked block.State) (block.State, bool) {
	def, ok := o.cats.Def(clicked.Kind)
	if !ok || !def.Solid {
		return block.State{}, false
	}
	switch {
	case ctx.HitFace == geom.Up:
		return block.New(kind, block.PropFacing, "up"), true
	case ctx.HitFace.Horizontal():
		return block.New(kind, block.PropFacing, ctx.HitFace.String()), true
	}
	return block.State{}, false
}

// chest pairs with a lone chest of the same kind and facing on either side
// unless the agent sneaks.
func (o *Oracle) chest(kind string, ctx placement.Context, pos geom.Pos) block.State {
	facing := ctx.HorizontalFacing().Opposite()
	typ := block.ChestSingle
	if !ctx.Sneaking {
		switch {
		case o.loneChest(kind, pos.Offset(facing.RotateCW()), facing):
			typ = block.ChestLeft
		case o.loneChest(kind, pos.Offset(facing.RotateCCW()), facing):
			typ = block.ChestRight
		}
	}
	return block.New(kind, block.PropFacing, facing.String(), block.PropChestType, typ)
}

func (o *Oracle) loneChest(kind string, p geom.Pos, facing geom.Direction) bool {
	b := o.world.BlockAt(p)
	if b.Kind != kind {
		return false
	}
	f, _ := b.Get(block.PropFacing)
	t, _ := b.Get(block.PropChestType)
	return f == facing.String() && t == block.ChestSingle
}

// PartnerOffset returns the direction from a paired chest to its other half.
func PartnerOffset(s block.State) (geom.Direction, bool) {
	f, ok := s.Get(block.PropFacing)
	if !ok {
		return geom.North, false
	}
	facing, err := geom.ParseDirection(f)
	if err != nil || !facing.Horizontal() {
		return geom.North, false
	}
	switch t, _ := s.Get(block.PropChestType); t {
	case block.ChestLeft:
		return facing.RotateCW(), true
	case block.ChestRight:
		return facing.RotateCCW(), true
	}
	return geom.North, false
}
