package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"voxelprint.ai/internal/persistence/snapshot"
	"voxelprint.ai/internal/printer/driver"
)

type BuildArchiveMeta struct {
	Schematic string `json:"schematic"`
	RunID     string `json:"run_id"`
	EndTick   uint64 `json:"end_tick"`
	Digest    string `json:"digest"`
	Resolved  int    `json:"resolved"`
	Probes    int    `json:"probes"`
	Snapshot  string `json:"snapshot"`
	CreatedAt string `json:"created_at"`
}

// ArchiveBuild copies the final snapshot of a finished build into
// `dataDir/archives/<schematic>/<digest prefix>/`. Builds that left blocks
// blocked or pending are not archived.
func ArchiveBuild(dataDir, schematicID, snapshotPath string, snap snapshot.SnapshotV1, rep driver.Report) (archivedPath string, archived bool, err error) {
	if rep.Blocked > 0 || rep.Pending > 0 || schematicID == "" {
		return "", false, nil
	}
	digest := snap.Header.Digest
	if len(digest) > 12 {
		digest = digest[:12]
	}
	archiveDir := filepath.Join(dataDir, "archives", schematicID, digest)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", false, err
	}

	meta := BuildArchiveMeta{
		Schematic: schematicID,
		RunID:     snap.Header.WorldID,
		EndTick:   snap.Header.Tick,
		Digest:    snap.Header.Digest,
		Resolved:  rep.Resolved,
		Probes:    rep.Probes,
		Snapshot:  filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", false, err
	}
	return dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
