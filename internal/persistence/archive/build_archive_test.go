package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"voxelprint.ai/internal/persistence/snapshot"
	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/world/store"
)

func TestArchiveBuild(t *testing.T) {
	dir := t.TempDir()
	w := store.New()
	w.SetBlock(geom.Pos{0, 1, 0}, block.New("PLANK"))
	snap := snapshot.Capture("run_1", 7, w)
	snapPath := filepath.Join(dir, "runs", "run_1", "snapshots", "7.snap.zst")
	if err := snapshot.WriteSnapshot(snapPath, snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, ok, err := ArchiveBuild(dir, "hut", snapPath, snap, driver.Report{Resolved: 5, Blocked: 1}); err != nil || ok {
		t.Fatalf("blocked build archived: ok=%v err=%v", ok, err)
	}

	dst, ok, err := ArchiveBuild(dir, "hut", snapPath, snap, driver.Report{Resolved: 6, Probes: 300})
	if err != nil || !ok {
		t.Fatalf("ArchiveBuild: ok=%v err=%v", ok, err)
	}
	if want := filepath.Join(dir, "archives", "hut", snap.Header.Digest[:12], "7.snap.zst"); dst != want {
		t.Fatalf("dst=%s want %s", dst, want)
	}
	h, err := snapshot.ReadHeader(dst)
	if err != nil || h.Digest != snap.Header.Digest {
		t.Fatalf("archived header=%+v err=%v", h, err)
	}

	b, err := os.ReadFile(filepath.Join(filepath.Dir(dst), "meta.json"))
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	var meta BuildArchiveMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatalf("meta json: %v", err)
	}
	if meta.Schematic != "hut" || meta.RunID != "run_1" || meta.EndTick != 7 || meta.Resolved != 6 || meta.Probes != 300 {
		t.Fatalf("meta=%+v", meta)
	}
}
