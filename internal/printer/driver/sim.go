package driver

import (
	"fmt"

	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/rules"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/world/store"
)

// Sim executes actions against an in-memory store. Placements go through the
// same oracle the guides probe; a chest that pairs also updates its partner.
type Sim struct {
	World  *store.Store
	Oracle placement.Oracle
}

func (s *Sim) Execute(a *placement.Agent, kind string, act guides.Action) error {
	if a == nil {
		return fmt.Errorf("no agent")
	}
	ctx := act.Context
	ctx.Agent = a
	if got := a.Inventory.Stack(ctx.Slot); got.Empty() || got.Item != ctx.Held.Item {
		return fmt.Errorf("slot %d does not hold %s", ctx.Slot, ctx.Held.Item)
	}

	switch act.Kind {
	case guides.ActionPlace:
		st, ok := s.Oracle.Evaluate(kind, ctx)
		if !ok {
			return fmt.Errorf("placement of %s at %s rejected", kind, ctx.PlacementPos())
		}
		pos := ctx.PlacementPos()
		s.World.SetBlock(pos, st)
		s.pairPartner(pos, st)
	case guides.ActionInteract:
		cur := s.World.BlockAt(ctx.Clicked)
		if v, ok := cur.Bool(act.Property); !ok || v {
			return fmt.Errorf("%s at %s has no %s to switch on", cur, ctx.Clicked, act.Property)
		}
		s.World.SetBlock(ctx.Clicked, cur.With(act.Property, "true"))
	default:
		return fmt.Errorf("unknown action %q", act.Kind)
	}
	a.Inventory.Take(ctx.Slot)
	return nil
}

func (s *Sim) pairPartner(pos geom.Pos, st block.State) {
	d, ok := rules.PartnerOffset(st)
	if !ok {
		return
	}
	n := pos.Offset(d)
	nb := s.World.BlockAt(n)
	if nb.Kind != st.Kind {
		return
	}
	if t, _ := nb.Get(block.PropChestType); t != block.ChestSingle {
		return
	}
	other := block.ChestRight
	if t, _ := st.Get(block.PropChestType); t == block.ChestRight {
		other = block.ChestLeft
	}
	s.World.SetBlock(n, nb.With(block.PropChestType, other))
}
