package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	persistlog "voxelprint.ai/internal/persistence/log"
	"voxelprint.ai/internal/persistence/snapshot"
	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/printer/rules"
	"voxelprint.ai/internal/sim/catalogs"
)

type summary struct {
	Applied int
	Failed  int
	Digest  string
}

func main() {
	var (
		snapPath    = flag.String("snapshot", "", "starting .snap.zst (usually <run>/snapshots/0.snap.zst)")
		attemptsDir = flag.String("attempts", "", "dir containing attempts-*.jsonl.zst")
		expectPath  = flag.String("expect", "", "snapshot whose digest the replay must reach (optional)")
		configDir   = flag.String("configs", "./configs", "config directory")
	)
	flag.Parse()

	if *snapPath == "" || *attemptsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot or -attempts")
		os.Exit(2)
	}

	sum, err := replay(*configDir, *snapPath, *attemptsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replayed applied=%d failed=%d digest=%s\n", sum.Applied, sum.Failed, sum.Digest)

	if *expectPath == "" {
		return
	}
	h, err := snapshot.ReadHeader(*expectPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read expected snapshot:", err)
		os.Exit(1)
	}
	if h.Digest != sum.Digest {
		fmt.Fprintf(os.Stderr, "digest mismatch: got=%s want=%s (tick %d)\n", sum.Digest, h.Digest, h.Tick)
		os.Exit(1)
	}
	fmt.Println("replay ok")
}

// replay re-executes every recorded action against the starting world.
// Failed executions are counted, not fatal: the original run saw them too.
func replay(configDir, snapPath, attemptsDir string) (summary, error) {
	var sum summary
	cats, err := catalogs.Load(configDir)
	if err != nil {
		return sum, fmt.Errorf("load catalogs: %w", err)
	}
	snap, err := snapshot.ReadSnapshot(snapPath)
	if err != nil {
		return sum, fmt.Errorf("read snapshot: %w", err)
	}
	w, err := snap.World()
	if err != nil {
		return sum, err
	}
	agents, err := snap.PlacementAgents()
	if err != nil {
		return sum, err
	}
	if len(agents) == 0 {
		return sum, fmt.Errorf("snapshot has no agent")
	}
	agent := agents[0]

	files, err := persistlog.ListFiles(attemptsDir, "attempts")
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		return sum, fmt.Errorf("no attempts files found in %s", attemptsDir)
	}

	exec := &driver.Sim{World: w, Oracle: rules.New(w, cats)}
	for _, path := range files {
		err := persistlog.ReadAttempts(path, func(a driver.Attempt) error {
			if a.Action == nil {
				return nil
			}
			kind, _, _ := strings.Cut(a.Target, "[")
			if err := exec.Execute(agent, kind, *a.Action); err != nil {
				sum.Failed++
				return nil
			}
			sum.Applied++
			return nil
		})
		if err != nil {
			return sum, err
		}
	}
	sum.Digest = w.Digest()
	return sum, nil
}
