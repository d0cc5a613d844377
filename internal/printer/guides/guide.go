// Package guides decides how to reproduce one schematic block. Each guide
// covers one shape of placement problem: the Guesser brute-forces look
// direction, reference face and hit offset against the placement oracle,
// the Toggle flips a binary property with a single click.
package guides

import (
	"log"

	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
)

// Guide is the capability the scheduler drives.
type Guide interface {
	Name() string
	// CanExecute reports whether the guide applies to the agent right now.
	CanExecute(a *placement.Agent) bool
	// RequiredItems lists item kinds, one of each, the attempt consumes.
	RequiredItems() []ItemSpec
	// Resolve proposes an action without touching the world.
	Resolve(a *placement.Agent) (Action, bool)
}

type ItemSpec struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type ActionKind string

const (
	// ActionPlace places the held item using Context.
	ActionPlace ActionKind = "PLACE"
	// ActionInteract uses the held item on the block at Context.Clicked.
	ActionInteract ActionKind = "INTERACT"
)

type Action struct {
	Kind    ActionKind        `json:"kind"`
	Context placement.Context `json:"context"`

	// Property is the boolean switched on by an interact action.
	Property string `json:"property,omitempty"`
	// Probes is the number of oracle evaluations the resolve took.
	Probes   int    `json:"probes"`
}

type World interface {
	BlockAt(p geom.Pos) block.State
}

// Config is passed explicitly; guides never read process-wide flags.
type Config struct {
	// Debug bypasses the cached placement context on every call.
	Debug bool
	// RevalidateCache rechecks the cached context's reference neighbor
	// before reusing it.
	RevalidateCache bool
}

// Env bundles the collaborators a guide consults.
type Env struct {
	World  World
	Blocks *catalogs.Catalogs
	Oracle placement.Oracle
	Config Config
	Log    *log.Logger // optional
}

// Select picks the guide variant for a position, or nil when no guide can
// make progress on it.
func Select(s schematic.BlockState, env Env) Guide {
	if t := EyeToggle(s, env); t.applicable() {
		return t
	}
	if !env.Blocks.Replaceable(s.Current) {
		return nil
	}
	// A kind no item places can never be built, only waited on.
	if g := NewGuesser(s, env); len(g.items) > 0 {
		return g
	}
	return nil
}
