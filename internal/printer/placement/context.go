// Package placement holds the proposed-interaction value type and the
// placement-rule capability the guides probe.
package placement

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/inventory"
)

// Agent is the acting player as seen by the guides.
type Agent struct {
	ID        string
	Pos       geom.Pos
	Inventory *inventory.Inventory

	// Facing is the horizontal facing used when a probe looks straight up
	// or down.
	Facing geom.Direction
}

// Context is one candidate interaction. It is a value; copies are
// independent.
type Context struct {
	Agent *Agent `json:"-"`

	HitPos   mgl64.Vec3      `json:"hit_pos"`
	HitFace  geom.Direction  `json:"hit_face"`
	Clicked  geom.Pos        `json:"clicked"`
	Held     inventory.Stack `json:"held"`
	Slot     int             `json:"slot"`
	Look     geom.Direction  `json:"look"`
	Sneaking bool            `json:"sneaking"`
}

// PlacementPos is where a block placed by this context would land.
func (c Context) PlacementPos() geom.Pos {
	return c.Clicked.Offset(c.HitFace)
}

// HorizontalFacing is the look direction flattened to the XZ plane.
func (c Context) HorizontalFacing() geom.Direction {
	if c.Look.Horizontal() {
		return c.Look
	}
	if c.Agent != nil && c.Agent.Facing.Horizontal() {
		return c.Agent.Facing
	}
	return geom.North
}

// Same compares every field except the agent pointer.
func (c Context) Same(o Context) bool {
	return c.HitPos == o.HitPos && c.HitFace == o.HitFace && c.Clicked == o.Clicked &&
		c.Held == o.Held && c.Slot == o.Slot && c.Look == o.Look && c.Sneaking == o.Sneaking
}
