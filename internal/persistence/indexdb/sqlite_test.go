package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"voxelprint.ai/internal/persistence/snapshot"
	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/tuning"
)

func TestSQLiteIndex_RecordAttempts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	act := guides.Action{Kind: guides.ActionPlace, Context: placement.Context{HitFace: geom.Up, Look: geom.North}}
	attempts := []driver.Attempt{
		{Tick: 1, Pos: geom.Pos{0, 1, 0}, Target: "PLANK", Guide: "guesser", Outcome: driver.OutcomeResolved, Probes: 41, Action: &act},
		{Tick: 2, Pos: geom.Pos{3, 1, 0}, Target: "STONE", Guide: "guesser", Outcome: driver.OutcomeNoCandidate},
		{Tick: 2, Pos: geom.Pos{3, 1, 0}, Target: "STONE", Guide: "guesser", Outcome: driver.OutcomeBlocked},
	}
	for _, a := range attempts {
		if err := idx.RecordAttempt(a); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		seq     int
		outcome string
		ctxJSON sql.NullString
	)
	row := db.QueryRow(`SELECT seq,outcome,context_json FROM attempts WHERE tick=2 AND x=3 ORDER BY seq DESC LIMIT 1`)
	if err := row.Scan(&seq, &outcome, &ctxJSON); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if seq != 1 || outcome != driver.OutcomeBlocked || ctxJSON.Valid {
		t.Fatalf("row mismatch: seq=%d outcome=%s ctx=%v", seq, outcome, ctxJSON)
	}
	row = db.QueryRow(`SELECT probes,context_json FROM attempts WHERE tick=1`)
	var probes int
	if err := row.Scan(&probes, &ctxJSON); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if probes != 41 || !ctxJSON.Valid || ctxJSON.String == "" {
		t.Fatalf("row mismatch: probes=%d ctx=%v", probes, ctxJSON)
	}

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	counts, err := again.OutcomeCounts(context.Background())
	if err != nil {
		t.Fatalf("OutcomeCounts: %v", err)
	}
	if counts[driver.OutcomeResolved] != 1 || counts[driver.OutcomeBlocked] != 1 || counts[driver.OutcomeNoCandidate] != 1 {
		t.Fatalf("counts=%v", counts)
	}
}

func TestSQLiteIndex_SnapshotsAndCatalogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := idx.UpsertCatalogs("../../../configs", cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, WorldID: "w1", Tick: 9, Digest: "abc"},
		Blocks: []snapshot.BlockV1{{Kind: "STONE"}, {Pos: [3]int{1, 0, 0}, Kind: "STONE"}},
	}
	idx.RecordSnapshot("/tmp/9.snap.zst", snap)
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		world  string
		digest string
		blocks int
	)
	if err := db.QueryRow(`SELECT world_id,digest,blocks FROM snapshots WHERE tick=9`).Scan(&world, &digest, &blocks); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if world != "w1" || digest != "abc" || blocks != 2 {
		t.Fatalf("snapshot row: %s %s %d", world, digest, blocks)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 5 {
		t.Fatalf("catalog rows=%d want 5", n)
	}
	var d string
	if err := db.QueryRow(`SELECT digest FROM catalogs WHERE name='blocks_defs'`).Scan(&d); err != nil || d != cats.Blocks.DefsDigest {
		t.Fatalf("blocks_defs digest=%q err=%v", d, err)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqAttempt}

	_ = s.RecordAttempt(driver.Attempt{Tick: 2})
	s.RecordSnapshot("/tmp/2.snap.zst", snapshot.SnapshotV1{})

	st := s.Stats()
	if st.DropAttemptTotal != 1 || st.DropSnapshotTotal != 1 {
		t.Fatalf("drops=%+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
