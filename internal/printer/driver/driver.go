// Package driver is a small scheduling loop around the guides: it walks the
// schematic, asks a guide for an action per position, hands the action to an
// executor and checks the world afterwards.
package driver

import (
	"context"
	"io"
	"log"

	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/rules"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/tuning"
)

// Attempt outcomes.
const (
	OutcomeResolved    = "RESOLVED"
	OutcomeProgress    = "PROGRESS" // lone chest placed, waiting for its pair
	OutcomeNotReady    = "NOT_READY"
	OutcomeNoGuide     = "NO_GUIDE"
	OutcomeNoCandidate = "NO_CANDIDATE"
	OutcomeMismatch    = "MISMATCH"
	OutcomeBlocked     = "BLOCKED"
	OutcomeGuessed     = "GUESSED" // answered by the guess service, not executed
)

type Attempt struct {
	Tick    uint64         `json:"tick"`
	Pos     geom.Pos       `json:"pos"`
	Target  string         `json:"target"`
	Guide   string         `json:"guide,omitempty"`
	Outcome string         `json:"outcome"`
	Probes  int            `json:"probes"`
	Action  *guides.Action `json:"action,omitempty"`
}

// Recorder receives every attempt (trace files, the SQLite index).
type Recorder interface {
	RecordAttempt(a Attempt) error
}

// World is what the driver reads back after acting.
type World interface {
	BlockAt(p geom.Pos) block.State
}

// Executor performs an action for real. The driver verifies the outcome by
// re-reading the world, not by trusting the executor.
type Executor interface {
	Execute(a *placement.Agent, kind string, act guides.Action) error
}

type Config struct {
	World    World
	Blocks   *catalogs.Catalogs
	Oracle   placement.Oracle
	Executor Executor
	Agent    *placement.Agent
	Tuning   tuning.Tuning

	Recorders []Recorder
	Logger    *log.Logger
}

type Report struct {
	Ticks    uint64 `json:"ticks"`
	Resolved int    `json:"resolved"`
	Blocked  int    `json:"blocked"`
	Pending  int    `json:"pending"`
	Probes   int    `json:"probes"`
}

type posState struct {
	target  block.State
	guide   guides.Guide
	builtOn block.State // current state the guide was built for
	fails   int
	waiting bool
	blocked bool
	done    bool
}

type Printer struct {
	cfg   Config
	log   *log.Logger
	order []geom.Pos
	pos   map[geom.Pos]*posState

	tick   uint64
	probes int
}

func New(cfg Config, s *schematic.Schematic) *Printer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Printer{cfg: cfg, log: logger, pos: map[geom.Pos]*posState{}}
	for _, b := range s.Placements() {
		p.order = append(p.order, b.Pos)
		p.pos[b.Pos] = &posState{target: b.State}
	}
	return p
}

func (p *Printer) env() guides.Env {
	return guides.Env{
		World:  p.cfg.World,
		Blocks: p.cfg.Blocks,
		Oracle: p.cfg.Oracle,
		Config: guides.Config{
			Debug:           p.cfg.Tuning.Debug,
			RevalidateCache: p.cfg.Tuning.RevalidateCache,
		},
		Log: p.log,
	}
}

// Run ticks until every position is resolved or blocked, MaxTicks is hit,
// or ctx is cancelled.
func (p *Printer) Run(ctx context.Context) Report {
	maxTicks := p.cfg.Tuning.MaxTicks
	if maxTicks <= 0 {
		maxTicks = tuning.Defaults().MaxTicks
	}
	for p.tick < uint64(maxTicks) {
		if ctx.Err() != nil {
			break
		}
		p.Tick()
		if r := p.Report(); r.Pending == 0 {
			break
		}
	}
	return p.Report()
}

// Tick attempts up to PositionsPerTick positions, in schematic order.
func (p *Printer) Tick() {
	p.tick++
	budget := p.cfg.Tuning.PositionsPerTick
	if budget <= 0 {
		budget = 1
	}
	for _, pos := range p.order {
		if budget == 0 {
			return
		}
		st := p.pos[pos]
		if st.done || st.blocked {
			continue
		}
		cur := p.cfg.World.BlockAt(pos)
		if cur.Equal(st.target) {
			st.done = true
			continue
		}
		if st.waiting {
			if guides.PairingProgress(st.target, cur) {
				p.abandonIfPartnerBlocked(pos, st)
				continue
			}
			st.waiting = false
		}
		if p.attempt(pos, st, cur) {
			budget--
		}
	}
}

// attempt reports whether the position used up part of the tick budget.
func (p *Printer) attempt(pos geom.Pos, st *posState, cur block.State) bool {
	rec := Attempt{Tick: p.tick, Pos: pos, Target: st.target.String()}

	if st.guide == nil || !st.builtOn.Equal(cur) {
		st.guide = guides.Select(schematic.BlockState{Pos: pos, Current: cur, Target: st.target}, p.env())
		st.builtOn = cur
	}
	g := st.guide
	if g == nil {
		rec.Outcome = OutcomeNoGuide
		p.fail(st, &rec)
		return true
	}
	rec.Guide = g.Name()

	if !p.hasItems(g.RequiredItems()) || !g.CanExecute(p.cfg.Agent) {
		// Waiting on inventory does not spend the retry budget.
		rec.Outcome = OutcomeNotReady
		p.record(rec)
		return false
	}

	act, ok := g.Resolve(p.cfg.Agent)
	rec.Probes = act.Probes
	p.probes += act.Probes
	if !ok {
		rec.Outcome = OutcomeNoCandidate
		p.fail(st, &rec)
		return true
	}
	rec.Action = &act

	if err := p.cfg.Executor.Execute(p.cfg.Agent, st.target.Kind, act); err != nil {
		p.log.Printf("execute %s at %s: %v", st.target, pos, err)
	}

	got := p.cfg.World.BlockAt(pos)
	switch {
	case got.Equal(st.target):
		st.done = true
		rec.Outcome = OutcomeResolved
		p.record(rec)
	case guides.PairingProgress(st.target, got):
		st.waiting = true
		rec.Outcome = OutcomeProgress
		p.record(rec)
	default:
		rec.Outcome = OutcomeMismatch
		p.fail(st, &rec)
	}
	return true
}

func (p *Printer) fail(st *posState, rec *Attempt) {
	st.fails++
	p.record(*rec)
	if st.fails >= max(p.cfg.Tuning.RetryBudget, 1) {
		st.blocked = true
		p.log.Printf("blocked %s at %s after %d attempts (last %s)", rec.Target, rec.Pos, st.fails, rec.Outcome)
		p.record(Attempt{Tick: rec.Tick, Pos: rec.Pos, Target: rec.Target, Guide: rec.Guide, Outcome: OutcomeBlocked})
	}
}

// abandonIfPartnerBlocked blocks a lone chest whose other half can never be
// placed: the partner position is blocked or not part of the schematic.
func (p *Printer) abandonIfPartnerBlocked(pos geom.Pos, st *posState) {
	d, ok := rules.PartnerOffset(st.target)
	if !ok {
		return
	}
	if partner, ok := p.pos[pos.Offset(d)]; ok && !partner.blocked {
		return
	}
	st.waiting = false
	st.blocked = true
	target := st.target.String()
	p.log.Printf("blocked %s at %s: chest partner cannot be placed", target, pos)
	p.record(Attempt{Tick: p.tick, Pos: pos, Target: target, Outcome: OutcomeBlocked})
}

func (p *Printer) hasItems(items []guides.ItemSpec) bool {
	inv := p.cfg.Agent.Inventory
	for _, it := range items {
		if inv.Count(it.Item) < it.Count {
			return false
		}
	}
	return true
}

func (p *Printer) record(a Attempt) {
	for _, r := range p.cfg.Recorders {
		if err := r.RecordAttempt(a); err != nil {
			p.log.Printf("record attempt: %v", err)
		}
	}
}

func (p *Printer) Report() Report {
	r := Report{Ticks: p.tick, Probes: p.probes}
	for _, pos := range p.order {
		st := p.pos[pos]
		switch {
		case st.done:
			r.Resolved++
		case st.blocked:
			r.Blocked++
		default:
			r.Pending++
		}
	}
	return r
}
