package protocol_test

import (
	"encoding/json"
	"testing"

	"voxelprint.ai/internal/protocol"
	"voxelprint.ai/internal/sim/block"
	"voxelprint.ai/schemas"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	validate := func(name string, raw string) {
		t.Helper()
		if err := schemas.ValidateJSON(name, []byte(raw)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	validate("hello.schema.json", `{"type":"HELLO","protocol_version":"1.0","agent_name":"bot1"}`)
	validate("welcome.schema.json", `{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"S1",
	  "catalogs":{
	    "block_palette":{"digest":"deadbeef","count":21},
	    "item_palette":{"digest":"deadbeef","count":17}
	  }
	}`)
	validate("guess.schema.json", `{
	  "type":"GUESS",
	  "protocol_version":"1.0",
	  "id":"G1",
	  "pos":[0,1,0],
	  "target":{"kind":"FURNACE","props":{"facing":"south"}},
	  "blocks":[{"pos":[0,0,0],"state":{"kind":"STONE"}}],
	  "inventory":[{"slot":0,"item":"FURNACE","count":1}],
	  "facing":"north"
	}`)
	validate("guess_result.schema.json", `{
	  "type":"GUESS_RESULT",
	  "protocol_version":"1.0",
	  "id":"G1",
	  "ok":true,
	  "guide":"guesser",
	  "action":"PLACE",
	  "context":{"hit_pos":[0.25,1,0.25],"hit_face":"up","clicked":[0,0,0],"slot":0,"item":"FURNACE","look":"north","sneaking":false},
	  "probes":41
	}`)
}

func TestSchemas_RejectBadGuess(t *testing.T) {
	bad := []string{
		`{"type":"GUESS","protocol_version":"1.0","id":"G1","pos":[0,1],"target":{"kind":"STONE"},"blocks":[],"inventory":[]}`,
		`{"type":"GUESS","protocol_version":"1.0","id":"G1","pos":[0,1,0],"target":{},"blocks":[],"inventory":[]}`,
		`{"type":"GUESS","protocol_version":"1.0","id":"G1","pos":[0,1,0],"target":{"kind":"STONE"},"blocks":[],"inventory":[],"facing":"up"}`,
	}
	for _, raw := range bad {
		if err := schemas.ValidateJSON("guess.schema.json", []byte(raw)); err == nil {
			t.Fatalf("expected rejection: %s", raw)
		}
	}
}

// The Go message types must produce documents the schemas accept.
func TestSchemas_MessageTypesConform(t *testing.T) {
	msgs := map[string]any{
		"hello.schema.json": protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, AgentName: "bot"},
		"guess.schema.json": protocol.GuessMsg{
			Type:            protocol.TypeGuess,
			ProtocolVersion: protocol.Version,
			ID:              "G1",
			Target:          block.New("STONE"),
			Blocks:          []protocol.PlacedBlock{},
			Inventory:       []protocol.SlotStack{{Slot: 0, Item: "STONE", Count: 1}},
		},
		"guess_result.schema.json": protocol.GuessResultMsg{
			Type:            protocol.TypeGuessResult,
			ProtocolVersion: protocol.Version,
			ID:              "G1",
			Code:            protocol.ErrNoCandidate,
			Probes:          288,
		},
	}
	for name, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := schemas.ValidateJSON(name, b); err != nil {
			t.Fatalf("%s: %v\n%s", name, err, b)
		}
	}
}
