package log

import (
	"path/filepath"
	"testing"

	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/sim/geom"
)

func TestAttemptLogger_WritesReadableTrace(t *testing.T) {
	dir := t.TempDir()
	l := NewAttemptLogger(dir)
	act := guides.Action{
		Kind:    guides.ActionPlace,
		Context: placement.Context{HitFace: geom.Up, Clicked: geom.Pos{0, 0, 0}, Look: geom.North, Slot: 2},
		Probes:  41,
	}
	in := []driver.Attempt{
		{Tick: 1, Pos: geom.Pos{0, 1, 0}, Target: "PLANK", Guide: "guesser", Outcome: driver.OutcomeResolved, Probes: 41, Action: &act},
		{Tick: 2, Pos: geom.Pos{0, 9, 0}, Target: "STONE", Guide: "guesser", Outcome: driver.OutcomeNoCandidate},
	}
	for _, a := range in {
		if err := l.RecordAttempt(a); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := ListFiles(filepath.Join(dir, "attempts"), "attempts")
	if err != nil || len(files) == 0 {
		t.Fatalf("files=%v err=%v", files, err)
	}
	// A run that straddles an hour boundary rotates into a second file.
	var out []driver.Attempt
	for _, f := range files {
		if err := ReadAttempts(f, func(a driver.Attempt) error {
			out = append(out, a)
			return nil
		}); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if len(out) != 2 {
		t.Fatalf("got %d attempts", len(out))
	}
	got := out[0]
	if got.Outcome != driver.OutcomeResolved || got.Action == nil || got.Action.Context.HitFace != geom.Up || got.Action.Context.Slot != 2 {
		t.Fatalf("first attempt=%+v", got)
	}
	if out[1].Action != nil || out[1].Pos != (geom.Pos{0, 9, 0}) {
		t.Fatalf("second attempt=%+v", out[1])
	}
}
