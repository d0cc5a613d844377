package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/world/logic/mathx"
)

// Store is an in-memory block-state world. Block states are interned in a
// store-wide palette; chunks hold palette ids. Missing chunks read as air.
type Store struct {
	Chunks map[ChunkKey]*Chunk

	palette []block.State
	index   map[string]uint16
}

// Entry is one non-air block.
type Entry struct {
	Pos   geom.Pos    `json:"pos"`
	State block.State `json:"state"`
}

func New() *Store {
	return &Store{
		Chunks:  map[ChunkKey]*Chunk{},
		palette: []block.State{{Kind: block.Air}},
		index:   map[string]uint16{block.Air: 0},
	}
}

func chunkOf(p geom.Pos) (ChunkKey, int, int, int) {
	k := ChunkKey{
		CX: mathx.FloorDiv(p[0], ChunkSize),
		CY: mathx.FloorDiv(p[1], ChunkSize),
		CZ: mathx.FloorDiv(p[2], ChunkSize),
	}
	return k, mathx.Mod(p[0], ChunkSize), mathx.Mod(p[1], ChunkSize), mathx.Mod(p[2], ChunkSize)
}

func (s *Store) intern(b block.State) uint16 {
	if b.IsAir() {
		return 0
	}
	key := b.String()
	if id, ok := s.index[key]; ok {
		return id
	}
	id := uint16(len(s.palette))
	s.palette = append(s.palette, b)
	s.index[key] = id
	return id
}

// BlockAt returns the state at p; unset positions are air.
func (s *Store) BlockAt(p geom.Pos) block.State {
	k, lx, ly, lz := chunkOf(p)
	ch, ok := s.Chunks[k]
	if !ok {
		return s.palette[0]
	}
	return s.palette[ch.Get(lx, ly, lz)]
}

func (s *Store) SetBlock(p geom.Pos, b block.State) {
	k, lx, ly, lz := chunkOf(p)
	id := s.intern(b)
	ch, ok := s.Chunks[k]
	if !ok {
		if id == 0 {
			return
		}
		ch = newChunk(k)
		s.Chunks[k] = ch
	}
	ch.Set(lx, ly, lz, id)
}

func (s *Store) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for k := range s.Chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// Entries lists every non-air block in chunk order, then y, z, x.
func (s *Store) Entries() []Entry {
	var out []Entry
	for _, k := range s.LoadedChunkKeys() {
		ch := s.Chunks[k]
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				for x := 0; x < ChunkSize; x++ {
					id := ch.Get(x, y, z)
					if id == 0 {
						continue
					}
					out = append(out, Entry{
						Pos:   geom.Pos{k.CX*ChunkSize + x, k.CY*ChunkSize + y, k.CZ*ChunkSize + z},
						State: s.palette[id],
					})
				}
			}
		}
	}
	return out
}

// Digest hashes the rendered contents. Two stores with the same blocks share
// a digest regardless of palette order.
func (s *Store) Digest() string {
	h := sha256.New()
	for _, e := range s.Entries() {
		h.Write([]byte(e.Pos.String()))
		h.Write([]byte{'='})
		h.Write([]byte(e.State.String()))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Snapshot captures the current contents and returns a func that restores
// them. Palette ids stay valid because the palette only grows.
func (s *Store) Snapshot() (restore func()) {
	saved := make(map[ChunkKey]*Chunk, len(s.Chunks))
	for k, ch := range s.Chunks {
		saved[k] = ch.clone()
	}
	return func() {
		s.Chunks = saved
	}
}
