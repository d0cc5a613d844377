package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/protocol"
	"voxelprint.ai/internal/sim/block"
)

// bot walks a schematic and asks the guess service how to place each block,
// assuming every answered placement lands as intended.
func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name    = flag.String("name", "bot", "agent name")
		schPath = flag.String("schematic", "./configs/schematics/hut.json", "schematic to walk")
		facing  = flag.String("facing", "north", "agent facing")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	sch, err := schematic.Read(*schPath)
	if err != nil {
		logger.Fatalf("read schematic: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, AgentName: *name}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}
	var welcome protocol.WelcomeMsg
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		logger.Fatalf("read WELCOME: %v", err)
	}
	logger.Printf("WELCOME session_id=%s blocks=%d items=%d", welcome.SessionID, welcome.Catalogs.BlockPalette.Count, welcome.Catalogs.ItemPalette.Count)

	known := floor(8)
	for i, b := range sch.Placements() {
		m := protocol.GuessMsg{
			Type:            protocol.TypeGuess,
			ProtocolVersion: protocol.Version,
			ID:              fmt.Sprintf("G%d", i+1),
			Pos:             b.Pos,
			Target:          b.State,
			Blocks:          known,
			Inventory:       []protocol.SlotStack{{Slot: 0, Item: b.State.Kind, Count: 1}},
			Facing:          *facing,
		}
		if err := conn.WriteJSON(m); err != nil {
			logger.Fatalf("send GUESS: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			logger.Fatalf("read: %v", err)
		}
		var res protocol.GuessResultMsg
		if err := json.Unmarshal(raw, &res); err != nil {
			logger.Printf("bad result: %v", err)
			continue
		}
		if !res.OK {
			logger.Printf("%s %s at %v: %s %s", res.ID, b.State, b.Pos, res.Code, res.Message)
			continue
		}
		c := res.Context
		logger.Printf("%s %s at %v: %s clicked=%v face=%s look=%s sneak=%v probes=%d",
			res.ID, b.State, b.Pos, res.Action, c.Clicked, c.HitFace, c.Look, c.Sneaking, res.Probes)
		known = append(known, protocol.PlacedBlock{Pos: b.Pos, State: b.State})
	}
}

func floor(r int) []protocol.PlacedBlock {
	var out []protocol.PlacedBlock
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			out = append(out, protocol.PlacedBlock{Pos: [3]int{x, 0, z}, State: block.New("STONE")})
		}
	}
	return out
}
