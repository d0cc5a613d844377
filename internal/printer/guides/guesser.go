package guides

import (
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/geom"
)

// Guesser is the guide most blocks use. It searches for a look direction,
// reference face and hit point that make the oracle produce the target
// state, and remembers the first one that works.
type Guesser struct {
	placementGuide

	cached *placement.Context
}

func NewGuesser(s schematic.BlockState, env Env) *Guesser {
	g := &Guesser{placementGuide: placementGuide{base: base{state: s, env: env}}}
	if env.Blocks != nil {
		if item, ok := env.Blocks.ItemFor(s.Target.Kind); ok {
			g.items = []ItemSpec{{Item: item, Count: 1}}
		}
	}
	return g
}

func (g *Guesser) Name() string { return "guesser" }

func (g *Guesser) CanExecute(a *placement.Agent) bool {
	if !g.base.CanExecute(a) {
		return false
	}
	return len(g.items) > 0 && g.env.Blocks.Replaceable(g.state.Current)
}

func (g *Guesser) Resolve(a *placement.Agent) (Action, bool) {
	probes := &placement.Counting{Oracle: g.env.Oracle}
	ctx, ok := g.placementContext(a, probes)
	return Action{Kind: ActionPlace, Context: ctx, Probes: probes.Calls}, ok
}

// PlacementContext returns a context that reproduces the target state, or
// false when none exists in the current world.
func (g *Guesser) PlacementContext(a *placement.Agent) (placement.Context, bool) {
	return g.placementContext(a, g.env.Oracle)
}

func (g *Guesser) placementContext(a *placement.Agent, oracle placement.Oracle) (placement.Context, bool) {
	if g.cached != nil && !g.env.Config.Debug {
		if !g.env.Config.RevalidateCache || g.stillValid(a, *g.cached) {
			ctx := *g.cached
			ctx.Agent = a
			if a != nil {
				if cur := a.Inventory.Stack(ctx.Slot); cur.Item == ctx.Held.Item {
					ctx.Held = cur
				}
			}
			return ctx, true
		}
		g.cached = nil
	}

	held, ok := g.RequiredItem(a)
	if !ok {
		return placement.Context{}, false
	}
	slot := g.SlotWithItem(a, held)
	pos := g.state.Pos
	target := g.state.Target
	w := g.env.World

	usable := func(side geom.Direction) bool {
		n := pos.Offset(side)
		// Grass and the like can be clicked but are replaced, not built on.
		return g.CanBeClicked(w, n) && !g.env.Blocks.Replaceable(w.BlockAt(n))
	}
	build := func(c candidate) placement.Context {
		n := pos.Offset(c.side)
		face := pos.Center().Add(c.side.Vec().Mul(0.5))
		return placement.Context{
			Agent:    a,
			HitPos:   face.Add(geom.MulElem(c.offset, c.side.FaceMask())),
			HitFace:  c.side.Opposite(),
			Clicked:  n,
			Held:     held,
			Slot:     slot,
			Look:     c.look,
			Sneaking: g.IsInteractive(w.BlockAt(n).Kind),
		}
	}

	var found placement.Context
	_, ok = firstMatch(candidates(usable), func(c candidate) bool {
		ctx := build(c)
		result, ok := oracle.Evaluate(target.Kind, ctx)
		if !ok || !(g.StatesEqual(result, target) || PairingProgress(target, result)) {
			return false
		}
		found = ctx
		return true
	})
	if g.env.Config.Debug {
		g.logf("guess %s at %s: found=%v", target, pos, ok)
	}
	if !ok {
		return placement.Context{}, false
	}
	cached := found
	g.cached = &cached
	return found, true
}

// stillValid is the cheap check run before reusing a cached context: the
// reference neighbor must still be there and the item still in its slot.
func (g *Guesser) stillValid(a *placement.Agent, ctx placement.Context) bool {
	w := g.env.World
	if !g.CanBeClicked(w, ctx.Clicked) || g.env.Blocks.Replaceable(w.BlockAt(ctx.Clicked)) {
		return false
	}
	if a == nil || a.Inventory.Stack(ctx.Slot).Item != ctx.Held.Item {
		return false
	}
	return true
}
