package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/inventory"
	"voxelprint.ai/internal/sim/world/store"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
	Digest  string `json:"digest"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Blocks []BlockV1 `json:"blocks"`
	Agents []AgentV1 `json:"agents"`
}

type BlockV1 struct {
	Pos   [3]int            `json:"pos"`
	Kind  string            `json:"kind"`
	Props map[string]string `json:"props,omitempty"`
}

type AgentV1 struct {
	ID     string            `json:"id"`
	Pos    [3]int            `json:"pos"`
	Facing string            `json:"facing"`
	Slots  []inventory.Stack `json:"slots"`
}

// Capture copies the world and agents into a snapshot value.
func Capture(worldID string, tick uint64, w *store.Store, agents ...*placement.Agent) SnapshotV1 {
	snap := SnapshotV1{Header: Header{Version: Version, WorldID: worldID, Tick: tick, Digest: w.Digest()}}
	for _, e := range w.Entries() {
		snap.Blocks = append(snap.Blocks, BlockV1{Pos: e.Pos, Kind: e.State.Kind, Props: e.State.Props})
	}
	for _, a := range agents {
		av := AgentV1{ID: a.ID, Pos: a.Pos, Facing: a.Facing.String()}
		if a.Inventory != nil {
			av.Slots = append([]inventory.Stack(nil), a.Inventory.Slots...)
		}
		snap.Agents = append(snap.Agents, av)
	}
	return snap
}

// World rebuilds the block store and checks it against the recorded digest.
func (s SnapshotV1) World() (*store.Store, error) {
	w := store.New()
	for _, b := range s.Blocks {
		w.SetBlock(geom.Pos(b.Pos), block.State{Kind: b.Kind, Props: b.Props})
	}
	if s.Header.Digest != "" && w.Digest() != s.Header.Digest {
		return nil, fmt.Errorf("snapshot %s@%d: digest mismatch", s.Header.WorldID, s.Header.Tick)
	}
	return w, nil
}

func (s SnapshotV1) PlacementAgents() ([]*placement.Agent, error) {
	out := make([]*placement.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		facing, err := geom.ParseDirection(a.Facing)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.ID, err)
		}
		inv := inventory.New(len(a.Slots))
		copy(inv.Slots, a.Slots)
		out = append(out, &placement.Agent{ID: a.ID, Pos: geom.Pos(a.Pos), Facing: facing, Inventory: inv})
	}
	return out, nil
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	br, closeFn, err := open(path)
	if err != nil {
		return snap, err
	}
	defer closeFn()

	// The gob body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}

// ReadHeader decodes only the leading JSON line.
func ReadHeader(path string) (Header, error) {
	var h Header
	br, closeFn, err := open(path)
	if err != nil {
		return h, err
	}
	defer closeFn()
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func open(path string) (*bufio.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return bufio.NewReaderSize(dec, 256*1024), func() {
		dec.Close()
		_ = f.Close()
	}, nil
}
