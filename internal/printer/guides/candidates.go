package guides

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"

	"voxelprint.ai/internal/sim/geom"
)

// hitOffsets are the corner perturbations tried on each clicked face. The
// component along the face normal is masked out before use, so each planar
// corner appears twice; the order is part of the search contract.
var hitOffsets = [8]mgl64.Vec3{
	{-0.25, -0.25, -0.25},
	{+0.25, -0.25, -0.25},
	{-0.25, +0.25, -0.25},
	{-0.25, -0.25, +0.25},
	{+0.25, +0.25, -0.25},
	{-0.25, +0.25, +0.25},
	{+0.25, -0.25, +0.25},
	{+0.25, +0.25, +0.25},
}

// MaxProbes bounds oracle calls per search.
const MaxProbes = len(geom.Directions) * len(geom.Directions) * len(hitOffsets)

type candidate struct {
	look   geom.Direction
	side   geom.Direction
	offset mgl64.Vec3
}

// candidates yields look x side x offset in the fixed order, skipping sides
// for which usable is false. usable is asked once per side, lazily.
func candidates(usable func(side geom.Direction) bool) iter.Seq[candidate] {
	return func(yield func(candidate) bool) {
		var known, ok [len(geom.Directions)]bool
		for _, look := range geom.Directions {
			for i, side := range geom.Directions {
				if !known[i] {
					ok[i], known[i] = usable(side), true
				}
				if !ok[i] {
					continue
				}
				for _, off := range hitOffsets {
					if !yield(candidate{look: look, side: side, offset: off}) {
						return
					}
				}
			}
		}
	}
}

func firstMatch[T any](seq iter.Seq[T], match func(T) bool) (T, bool) {
	for v := range seq {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
