package protocol

import "voxelprint.ai/internal/sim/block"

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AgentName       string `json:"agent_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type CatalogDigests struct {
	BlockPalette DigestRef `json:"block_palette"`
	ItemPalette  DigestRef `json:"item_palette"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// GUESS (client -> server): the neighborhood around one position and what
// should end up there.
type GuessMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	ID              string        `json:"id"`
	Pos             [3]int        `json:"pos"`
	Target          block.State   `json:"target"`
	Blocks          []PlacedBlock `json:"blocks"`
	Inventory       []SlotStack   `json:"inventory"`
	Facing          string        `json:"facing,omitempty"`
	Debug           bool          `json:"debug,omitempty"`
}

type PlacedBlock struct {
	Pos   [3]int      `json:"pos"`
	State block.State `json:"state"`
}

type SlotStack struct {
	Slot  int    `json:"slot"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// GUESS_RESULT (server -> client)
type GuessResultMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	ID              string        `json:"id"`
	OK              bool          `json:"ok"`
	Guide           string        `json:"guide,omitempty"`
	Action          string        `json:"action,omitempty"`   // PLACE, INTERACT
	Property        string        `json:"property,omitempty"` // INTERACT only
	Context         *GuessContext `json:"context,omitempty"`
	Probes          int           `json:"probes"`
	Code            string        `json:"error_code,omitempty"`
	Message         string        `json:"message,omitempty"`
}

type GuessContext struct {
	HitPos   [3]float64 `json:"hit_pos"`
	HitFace  string     `json:"hit_face"`
	Clicked  [3]int     `json:"clicked"`
	Slot     int        `json:"slot"`
	Item     string     `json:"item"`
	Look     string     `json:"look"`
	Sneaking bool       `json:"sneaking"`
}
