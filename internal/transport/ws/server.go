package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voxelprint.ai/internal/printer/driver"
	"voxelprint.ai/internal/printer/guides"
	"voxelprint.ai/internal/printer/placement"
	"voxelprint.ai/internal/printer/rules"
	"voxelprint.ai/internal/printer/schematic"
	"voxelprint.ai/internal/protocol"
	"voxelprint.ai/internal/sim/catalogs"
	"voxelprint.ai/internal/sim/geom"
	"voxelprint.ai/internal/sim/inventory"
	"voxelprint.ai/internal/sim/world/store"
)

const (
	MaxBlocks     = 4096
	InventorySize = 36
)

// Server answers GUESS requests. Every request carries its own neighborhood,
// so sessions share nothing but the catalogs.
type Server struct {
	cats *catalogs.Catalogs
	cfg  guides.Config
	log  *log.Logger

	// Recorders receive one attempt per answered guess.
	Recorders []driver.Recorder

	upgrader websocket.Upgrader
	sessions atomic.Uint64
	guesses  atomic.Uint64
}

func NewServer(cats *catalogs.Catalogs, cfg guides.Config, logger *log.Logger) *Server {
	return &Server{
		cats: cats,
		cfg:  cfg,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

type Stats struct {
	Sessions uint64 `json:"sessions"`
	Guesses  uint64 `json:"guesses"`
}

func (s *Server) Stats() Stats {
	return Stats{Sessions: s.sessions.Load(), Guesses: s.guesses.Load()}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID := s.handshake(conn)
		if sessionID == "" {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		out := make(chan []byte, 16)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			res := s.handle(sessionID, msg)
			b, err := json.Marshal(res)
			if err != nil {
				s.log.Printf("session %s: marshal result: %v", sessionID, err)
				continue
			}
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return ""
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return ""
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return ""
	}
	if hello.AgentName == "" {
		hello.AgentName = "agent"
	}

	id := fmt.Sprintf("S%d", s.sessions.Add(1))
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       id,
		Catalogs: protocol.CatalogDigests{
			BlockPalette: protocol.DigestRef{Digest: s.cats.Blocks.PaletteDigest, Count: len(s.cats.Blocks.Palette)},
			ItemPalette:  protocol.DigestRef{Digest: s.cats.Items.PaletteDigest, Count: len(s.cats.Items.Palette)},
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return ""
	}
	s.log.Printf("session %s: %s joined", id, hello.AgentName)
	return id
}

func (s *Server) handle(sessionID string, msg []byte) protocol.GuessResultMsg {
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeGuess {
		return reject("", protocol.ErrProtoBadRequest, "expected GUESS")
	}
	var m protocol.GuessMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return reject("", protocol.ErrProtoBadRequest, err.Error())
	}
	if m.ProtocolVersion != protocol.Version {
		return reject(m.ID, protocol.ErrProtoBadRequest, "bad protocol_version")
	}
	return s.Guess(sessionID, m)
}

// Guess resolves one request against a throwaway world built from the
// submitted blocks.
func (s *Server) Guess(sessionID string, m protocol.GuessMsg) protocol.GuessResultMsg {
	if len(m.Blocks) > MaxBlocks {
		return reject(m.ID, protocol.ErrBadRequest, fmt.Sprintf("more than %d blocks", MaxBlocks))
	}
	if _, ok := s.cats.Def(m.Target.Kind); !ok {
		return reject(m.ID, protocol.ErrInvalidTarget, "unknown block "+m.Target.Kind)
	}
	facing := geom.North
	if m.Facing != "" {
		d, err := geom.ParseDirection(m.Facing)
		if err != nil || !d.Horizontal() {
			return reject(m.ID, protocol.ErrBadRequest, "facing must be horizontal")
		}
		facing = d
	}

	w := store.New()
	for _, b := range m.Blocks {
		w.SetBlock(geom.Pos(b.Pos), b.State)
	}
	inv := inventory.New(InventorySize)
	for _, st := range m.Inventory {
		if st.Slot < 0 || st.Slot >= len(inv.Slots) {
			return reject(m.ID, protocol.ErrBadRequest, fmt.Sprintf("slot %d out of range", st.Slot))
		}
		inv.Slots[st.Slot] = inventory.Stack{Item: st.Item, Count: st.Count}
	}
	agent := &placement.Agent{ID: sessionID, Facing: facing, Inventory: inv}

	pos := geom.Pos(m.Pos)
	bs := schematic.BlockState{Pos: pos, Current: w.BlockAt(pos), Target: m.Target}
	if bs.Done() {
		return reject(m.ID, protocol.ErrAlreadyDone, bs.Current.String())
	}

	cfg := s.cfg
	cfg.Debug = cfg.Debug || m.Debug
	env := guides.Env{World: w, Blocks: s.cats, Oracle: rules.New(w, s.cats), Config: cfg, Log: s.log}

	rec := driver.Attempt{Tick: s.guesses.Add(1), Pos: pos, Target: m.Target.String()}
	res := s.resolve(bs, env, agent, &rec)
	res.ID = m.ID
	for _, r := range s.Recorders {
		if err := r.RecordAttempt(rec); err != nil {
			s.log.Printf("record guess: %v", err)
		}
	}
	return res
}

func (s *Server) resolve(bs schematic.BlockState, env guides.Env, agent *placement.Agent, rec *driver.Attempt) protocol.GuessResultMsg {
	g := guides.Select(bs, env)
	if g == nil {
		rec.Outcome = driver.OutcomeNoGuide
		return reject("", protocol.ErrNoGuide, fmt.Sprintf("cannot turn %s into %s", bs.Current, bs.Target))
	}
	rec.Guide = g.Name()
	for _, it := range g.RequiredItems() {
		if agent.Inventory.Count(it.Item) < it.Count {
			rec.Outcome = driver.OutcomeNotReady
			res := reject("", protocol.ErrNoResource, "missing "+it.Item)
			res.Guide = g.Name()
			return res
		}
	}
	if !g.CanExecute(agent) {
		rec.Outcome = driver.OutcomeNotReady
		res := reject("", protocol.ErrNoGuide, g.Name()+" cannot act here")
		res.Guide = g.Name()
		return res
	}

	act, ok := g.Resolve(agent)
	rec.Probes = act.Probes
	if !ok {
		rec.Outcome = driver.OutcomeNoCandidate
		res := reject("", protocol.ErrNoCandidate, "no interaction produces "+bs.Target.String())
		res.Guide = g.Name()
		res.Probes = act.Probes
		return res
	}
	rec.Outcome = driver.OutcomeGuessed
	rec.Action = &act

	ctx := act.Context
	return protocol.GuessResultMsg{
		Type:            protocol.TypeGuessResult,
		ProtocolVersion: protocol.Version,
		OK:              true,
		Guide:           g.Name(),
		Action:          act.Kind,
		Property:        act.Property,
		Probes:          act.Probes,
		Context: &protocol.GuessContext{
			HitPos:   ctx.HitPos,
			HitFace:  ctx.HitFace.String(),
			Clicked:  ctx.Clicked,
			Slot:     ctx.Slot,
			Item:     ctx.Held.Item,
			Look:     ctx.Look.String(),
			Sneaking: ctx.Sneaking,
		},
	}
}

func reject(id, code, message string) protocol.GuessResultMsg {
	return protocol.GuessResultMsg{
		Type:            protocol.TypeGuessResult,
		ProtocolVersion: protocol.Version,
		ID:              id,
		Code:            code,
		Message:         message,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
