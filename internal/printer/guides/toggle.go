package guides

import (
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
)

// Toggle handles blocks that are already placed and only need a boolean
// property switched on by using an item on them, like filling an end portal
// frame with an eye. Switching a property back off is not supported.
type Toggle struct {
	placementGuide
	property string
}

func NewToggle(s schematic.BlockState, env Env, property, item string) *Toggle {
	return &Toggle{
		placementGuide: placementGuide{
			base:  base{state: s, env: env},
			items: []ItemSpec{{Item: item, Count: 1}},
		},
		property: property,
	}
}

// EyeToggle inserts an ender eye into a portal frame.
func EyeToggle(s schematic.BlockState, env Env) *Toggle {
	return NewToggle(s, env, block.PropEye, "ENDER_EYE")
}

func (g *Toggle) Name() string { return "toggle:" + g.property }

func (g *Toggle) CanExecute(a *placement.Agent) bool {
	if !g.base.CanExecute(a) {
		return false
	}
	return g.applicable()
}

// applicable is the agent-independent part of CanExecute.
func (g *Toggle) applicable() bool {
	if g.state.Current.Equal(g.state.Target) {
		return false
	}
	cur, ok1 := g.state.Current.Bool(g.property)
	tgt, ok2 := g.state.Target.Bool(g.property)
	if !ok1 || !ok2 {
		return false
	}
	return !cur && tgt
}

// Resolve proposes one click on the top face of the block itself with the
// toggle item. No search is involved.
func (g *Toggle) Resolve(a *placement.Agent) (Action, bool) {
	if !g.CanExecute(a) {
		return Action{}, false
	}
	held, ok := g.RequiredItem(a)
	if !ok {
		return Action{}, false
	}
	pos := g.state.Pos
	return Action{
		Kind: ActionInteract,
		Context: placement.Context{
			Agent:   a,
			HitPos:  pos.Center().Add(geom.Up.Vec().Mul(0.5)),
			HitFace: geom.Up,
			Clicked: pos,
			Held:    held,
			Slot:    g.SlotWithItem(a, held),
			Look:    geom.Down,
		},
		Property: g.property,
	}, true
}
