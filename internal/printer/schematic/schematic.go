// Package schematic holds the target arrangement of blocks and the per-position
// view the guides work on.
package schematic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/schemas"
)

// BlockState pairs a world position with what is there and what the
// schematic wants there. Both descriptors are fully resolved.
type BlockState struct {
	Pos     geom.Pos
	Current block.State
	Target  block.State
}

func (s BlockState) Done() bool { return s.Current.Equal(s.Target) }

type Block struct {
	Pos   geom.Pos    `json:"pos"`
	State block.State `json:"state"`
}

type Schematic struct {
	ID     string   `json:"id"`
	Author string   `json:"author,omitempty"`
	Anchor geom.Pos `json:"anchor"`
	Blocks []Block  `json:"blocks"`
}

// Placements returns blocks in world coordinates, in file order.
func (s *Schematic) Placements() []Block {
	out := make([]Block, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		out = append(out, Block{
			Pos:   geom.Pos{s.Anchor[0] + b.Pos[0], s.Anchor[1] + b.Pos[1], s.Anchor[2] + b.Pos[2]},
			State: b.State,
		})
	}
	return out
}

// Read loads a schematic from .json or zstd-compressed .json.zst.
func Read(path string) (*Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Schematic, error) {
	if err := schemas.ValidateJSON("schematic.schema.json", raw); err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	var s Schematic
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	seen := make(map[geom.Pos]struct{}, len(s.Blocks))
	for _, b := range s.Blocks {
		if _, dup := seen[b.Pos]; dup {
			return nil, fmt.Errorf("schematic %s: duplicate block at %s", s.ID, b.Pos)
		}
		seen[b.Pos] = struct{}{}
	}
	return &s, nil
}

// Write stores s as JSON, compressed when path ends in .zst.
func Write(path string, s *Schematic) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if !strings.HasSuffix(path, ".zst") {
		return os.WriteFile(path, raw, 0o644)
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
