package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"buildgrid.io/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name    = flag.String("name", "bot", "actor name")
		piece   = flag.String("piece", "wall", "piece to place")
		count   = flag.Int("count", 8, "number of pieces to place")
		spacing = flag.Float64("spacing", 128, "distance between placements along +X")
		every   = flag.Uint64("every", 10, "ticks between placement attempts")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ActorName:       *name,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 8},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	p := &planner{Piece: *piece, Count: *count, Spacing: *spacing, Every: *every}
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME actor_id=%s world=%s tick_rate=%d build_enabled=%v cooldown_ms=%d",
				w.ActorID, w.WorldID, w.WorldParams.TickRateHz, w.WorldParams.BuildEnabled, w.WorldParams.CooldownMS)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			for _, ev := range st.Events {
				logger.Printf("tick=%d event=%v", st.Tick, ev)
			}
			if cmd := p.Next(st); cmd != nil {
				if err := conn.WriteJSON(cmd); err != nil {
					logger.Printf("send CMD: %v", err)
					return
				}
			}
			if p.Done() {
				logger.Printf("placed=%d failed=%d materials=%d structures_version=%d",
					p.placed, p.failed, st.Self.Materials, st.StructuresVersion)
				return
			}

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err == nil {
				logger.Printf("ERROR code=%s message=%s", e.Code, e.Message)
			}
		}
	}
}
