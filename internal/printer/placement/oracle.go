package placement

import "voxelprint.ai/internal/sim/block"

// Oracle computes the block state that placing kind with ctx would produce.
// It must be deterministic for identical world state and must not mutate
// the world; wrap side-effecting evaluators with Isolated.
type Oracle interface {
	Evaluate(kind string, ctx Context) (block.State, bool)
}

type OracleFunc func(kind string, ctx Context) (block.State, bool)

func (f OracleFunc) Evaluate(kind string, ctx Context) (block.State, bool) { return f(kind, ctx) }

// Snapshotter captures world contents and returns a restore func.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Isolated restores the world after every probe of an evaluator that writes
// to it.
type Isolated struct {
	Oracle Oracle
	World  Snapshotter
}

func (o Isolated) Evaluate(kind string, ctx Context) (block.State, bool) {
	restore := o.World.Snapshot()
	defer restore()
	return o.Oracle.Evaluate(kind, ctx)
}

// Counting records how many probes reach the wrapped oracle.
type Counting struct {
	Oracle Oracle
	Calls  int
}

func (o *Counting) Evaluate(kind string, ctx Context) (block.State, bool) {
	o.Calls++
	return o.Oracle.Evaluate(kind, ctx)
}
