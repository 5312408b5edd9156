package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/world"
)

// Sim is the world side of a connection.
type Sim interface {
	Inbox() chan<- world.CommandEnvelope
	Join() chan<- world.JoinRequest
	Leave() chan<- string
}

// Limits throttles CMD messages per connection.
type Limits struct {
	CommandsPerSecond float64
	CommandBurst      int
}

type Server struct {
	sim    Sim
	log    *log.Logger
	limits Limits

	upgrader websocket.Upgrader
}

func NewServer(sim Sim, limits Limits, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sim:    sim,
		log:    logger,
		limits: limits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) newLimiter() *rate.Limiter {
	if s.limits.CommandsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := s.limits.CommandBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.limits.CommandsPerSecond), burst)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		actorID, out := s.handshake(conn)
		if actorID == "" {
			return
		}
		s.log.Printf("actor connected: %s (%s)", actorID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine. Errors are queued on errs so only this goroutine
		// writes to the connection.
		errs := make(chan []byte, 4)
		go func() {
			for {
				var b []byte
				select {
				case <-ctx.Done():
					return
				case b = <-errs:
				case m, ok := <-out:
					if !ok {
						return
					}
					b = m
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}()

		limiter := s.newLimiter()
		reject := func(code, msg string) {
			b, _ := json.Marshal(protocol.ErrorMsg{
				Type:            protocol.TypeError,
				ProtocolVersion: protocol.Version,
				Code:            code,
				Message:         msg,
			})
			select {
			case errs <- b:
			default:
			}
		}

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeCmd {
				reject(protocol.ErrProtoBadRequest, "expected CMD")
				continue
			}
			var cmd protocol.CmdMsg
			if err := json.Unmarshal(msg, &cmd); err != nil {
				reject(protocol.ErrProtoBadRequest, "malformed CMD")
				continue
			}
			if cmd.ProtocolVersion != protocol.Version {
				reject(protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}
			if !limiter.Allow() {
				reject(protocol.ErrRateLimit, "too many commands")
				continue
			}
			select {
			case s.sim.Inbox() <- world.CommandEnvelope{ActorID: actorID, Cmd: cmd}:
			case <-ctx.Done():
			}
		}

		// Cleanup.
		s.sim.Leave() <- actorID
		s.log.Printf("actor disconnected: %s", actorID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (actorID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.ActorName == "" {
		hello.ActorName = "builder"
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan world.JoinResponse, 1)
	s.sim.Join() <- world.JoinRequest{
		Name: hello.ActorName,
		Out:  out,
		Resp: respCh,
	}
	resp := <-respCh

	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.sim.Leave() <- resp.Welcome.ActorID
		return "", nil
	}
	return resp.Welcome.ActorID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
