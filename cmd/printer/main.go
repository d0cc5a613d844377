package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"voxelprint.ai/internal/persistence/archive"
	"voxelprint.ai/internal/persistence/indexdb"
	persistlog "voxelprint.ai/internal/persistence/log"
	"voxelprint.ai/internal/persistence/snapshot"
	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/rules"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/inventory"
	"voxelprint.ai/internal/sim/tuning"
	"voxelprint.ai/internal/sim/world/store"
)

type options struct {
	ConfigDir     string
	TuningPath    string
	SchematicPath string
	SnapshotPath  string
	DataDir       string
	RunID         string
	Stock         bool
	DisableDB     bool
	FloorRadius   int
}

type result struct {
	Report   driver.Report `json:"report"`
	Snapshot string        `json:"snapshot"`
	Digest   string        `json:"digest"`
	Archive  string        `json:"archive,omitempty"`
}

func main() {
	var o options
	flag.StringVar(&o.ConfigDir, "configs", "./configs", "config directory")
	flag.StringVar(&o.TuningPath, "tuning", "", "path to printer.yaml (default: <configs>/printer.yaml)")
	flag.StringVar(&o.SchematicPath, "schematic", "", "schematic .json or .json.zst (default: <configs>/schematics/hut.json)")
	flag.StringVar(&o.SnapshotPath, "snapshot", "", "start from this snapshot instead of a flat stone floor")
	flag.StringVar(&o.DataDir, "data", "./data", "runtime data directory")
	flag.StringVar(&o.RunID, "run", "run_1", "run id (data/runs/<id>)")
	flag.BoolVar(&o.Stock, "stock", true, "give the agent every item the schematic needs")
	flag.BoolVar(&o.DisableDB, "disable_db", false, "disable the sqlite attempt index")
	flag.IntVar(&o.FloorRadius, "floor_radius", 16, "half-width of the generated stone floor")
	flag.Parse()

	logger := log.New(os.Stdout, "[printer] ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, o, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
	if res.Report.Blocked > 0 || res.Report.Pending > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, logger *log.Logger) (result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	var res result

	cats, err := catalogs.Load(o.ConfigDir)
	if err != nil {
		return res, fmt.Errorf("load catalogs: %w", err)
	}
	tp := strings.TrimSpace(o.TuningPath)
	if tp == "" {
		tp = filepath.Join(o.ConfigDir, "printer.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		return res, fmt.Errorf("load tuning: %w", err)
	}
	sp := strings.TrimSpace(o.SchematicPath)
	if sp == "" {
		sp = filepath.Join(o.ConfigDir, "schematics", "hut.json")
	}
	sch, err := schematic.Read(sp)
	if err != nil {
		return res, fmt.Errorf("read schematic: %w", err)
	}

	w, agent, err := startWorld(o)
	if err != nil {
		return res, err
	}
	if o.Stock {
		for _, b := range sch.Placements() {
			if item, ok := cats.ItemFor(b.State.Kind); ok {
				agent.Inventory.Add(item, 1)
			}
		}
	}

	runDir := filepath.Join(o.DataDir, "runs", o.RunID)
	trace := persistlog.NewAttemptLogger(runDir)
	defer trace.Close()
	recorders := []driver.Recorder{trace}

	var idx *indexdb.SQLiteIndex
	if !o.DisableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(runDir, "index", "attempts.sqlite"))
		if err != nil {
			return res, fmt.Errorf("open index: %w", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(o.ConfigDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		recorders = append(recorders, idx)
	}

	// Replays start from the tick-0 snapshot.
	start := snapshot.Capture(o.RunID, 0, w, agent)
	startPath := filepath.Join(runDir, "snapshots", "0.snap.zst")
	if err := snapshot.WriteSnapshot(startPath, start); err != nil {
		return res, fmt.Errorf("write snapshot: %w", err)
	}
	idx.RecordSnapshot(startPath, start)

	oracle := rules.New(w, cats)
	p := driver.New(driver.Config{
		World:     w,
		Blocks:    cats,
		Oracle:    oracle,
		Executor:  &driver.Sim{World: w, Oracle: oracle},
		Agent:     agent,
		Tuning:    tune,
		Recorders: recorders,
		Logger:    logger,
	}, sch)
	logger.Printf("printing %s (%d blocks)", sch.ID, len(sch.Blocks))
	res.Report = p.Run(ctx)

	snap := snapshot.Capture(o.RunID, res.Report.Ticks, w, agent)
	res.Snapshot = filepath.Join(runDir, "snapshots", fmt.Sprintf("%d.snap.zst", res.Report.Ticks))
	if err := snapshot.WriteSnapshot(res.Snapshot, snap); err != nil {
		return res, fmt.Errorf("write snapshot: %w", err)
	}
	idx.RecordSnapshot(res.Snapshot, snap)
	res.Digest = snap.Header.Digest
	if path, ok, err := archive.ArchiveBuild(o.DataDir, sch.ID, res.Snapshot, snap, res.Report); err != nil {
		logger.Printf("archive build: %v", err)
	} else if ok {
		res.Archive = path
	}
	logger.Printf("done ticks=%d resolved=%d blocked=%d pending=%d probes=%d",
		res.Report.Ticks, res.Report.Resolved, res.Report.Blocked, res.Report.Pending, res.Report.Probes)
	return res, nil
}

func startWorld(o options) (*store.Store, *placement.Agent, error) {
	if o.SnapshotPath != "" {
		snap, err := snapshot.ReadSnapshot(o.SnapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read snapshot: %w", err)
		}
		w, err := snap.World()
		if err != nil {
			return nil, nil, err
		}
		agents, err := snap.PlacementAgents()
		if err != nil {
			return nil, nil, err
		}
		if len(agents) > 0 {
			return w, agents[0], nil
		}
		return w, newAgent(), nil
	}

	w := store.New()
	r := o.FloorRadius
	if r <= 0 {
		r = 16
	}
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			w.SetBlock(geom.Pos{x, 0, z}, block.New("STONE"))
		}
	}
	return w, newAgent(), nil
}

func newAgent() *placement.Agent {
	return &placement.Agent{ID: "A1", Pos: geom.Pos{0, 1, -3}, Facing: geom.North, Inventory: inventory.New(36)}
}
