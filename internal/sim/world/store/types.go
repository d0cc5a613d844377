package store

const ChunkSize = 16

type ChunkKey struct {
	CX int
	CY int
	CZ int
}

// Chunk holds palette ids for a 16^3 section.
type Chunk struct {
	CX, CY, CZ int
	Blocks     []uint16 // len = 16*16*16, 0 = AIR
}

func newChunk(k ChunkKey) *Chunk {
	return &Chunk{CX: k.CX, CY: k.CY, CZ: k.CZ, Blocks: make([]uint16, ChunkSize*ChunkSize*ChunkSize)}
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	c.Blocks[c.index(x, y, z)] = b
}

func (c *Chunk) clone() *Chunk {
	out := *c
	out.Blocks = append([]uint16(nil), c.Blocks...)
	return &out
}
