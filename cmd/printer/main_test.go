package main

import (
	"context"
	"path/filepath"
	"testing"

	"voxelprint.ai/internal/persistence/snapshot"
)

func TestRun_PrintsHutAndResumes(t *testing.T) {
	dir := t.TempDir()
	o := options{
		ConfigDir: filepath.Join("..", "..", "configs"),
		DataDir:   dir,
		RunID:     "first",
		Stock:     true,
	}
	res, err := run(context.Background(), o, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Report.Blocked != 0 || res.Report.Pending != 0 || res.Report.Resolved == 0 {
		t.Fatalf("report=%+v", res.Report)
	}
	if res.Archive == "" {
		t.Fatalf("finished build was not archived")
	}
	h, err := snapshot.ReadHeader(res.Snapshot)
	if err != nil || h.Digest != res.Digest {
		t.Fatalf("header=%+v err=%v", h, err)
	}

	// Resuming from the finished world has nothing left to do.
	o.RunID = "second"
	o.SnapshotPath = res.Snapshot
	o.Stock = false
	again, err := run(context.Background(), o, nil)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if again.Report.Resolved != res.Report.Resolved || again.Report.Probes != 0 || again.Digest != res.Digest {
		t.Fatalf("resume report=%+v digest=%s", again.Report, again.Digest)
	}
}
