package guides

import (
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/inventory"
)

// base carries the state every guide shares.
type base struct {
	state schematic.BlockState
	env   Env
}

// CanExecute is the precondition every variant checks first.
func (g *base) CanExecute(a *placement.Agent) bool {
	return a != nil && !g.state.Current.Equal(g.state.Target)
}

// StatesEqual is exact equality of kind and properties.
func (g *base) StatesEqual(result, target block.State) bool {
	return result.Equal(target)
}

func (g *base) logf(format string, args ...any) {
	if g.env.Log != nil {
		g.env.Log.Printf(format, args...)
	}
}

// placementGuide adds the helpers guides that place blocks need.
type placementGuide struct {
	base
	items []ItemSpec
}

func (g *placementGuide) RequiredItems() []ItemSpec {
	return append([]ItemSpec(nil), g.items...)
}

// RequiredItem resolves the first required item against the agent's
// inventory. false means the attempt has to wait for the item.
func (g *placementGuide) RequiredItem(a *placement.Agent) (inventory.Stack, bool) {
	if a == nil {
		return inventory.Stack{}, false
	}
	if len(g.items) == 0 {
		return inventory.Stack{}, false
	}
	slot, ok := a.Inventory.FindSlot(g.items[0].Item)
	if !ok {
		return inventory.Stack{}, false
	}
	return a.Inventory.Stack(slot), true
}

// SlotWithItem returns the slot holding stack's item, or -1.
func (g *placementGuide) SlotWithItem(a *placement.Agent, stack inventory.Stack) int {
	if a == nil {
		return -1
	}
	slot, ok := a.Inventory.FindSlot(stack.Item)
	if !ok {
		return -1
	}
	return slot
}

// IsInteractive reports whether clicking a block of this kind would use it
// (open a container) instead of placing against it.
func (g *placementGuide) IsInteractive(kind string) bool {
	return g.env.Blocks.Interactive(kind)
}

// CanBeClicked reports whether the block at pos exposes a face to aim at.
func (g *placementGuide) CanBeClicked(w World, pos geom.Pos) bool {
	return g.env.Blocks.Clickable(w.BlockAt(pos))
}
