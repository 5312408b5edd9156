package world

import (
	"io"
	"log"
	"sync/atomic"

	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/world/feature/economy/ledger"
	"buildgrid.io/internal/sim/world/logic/geom"
)

// Tracer is the world collision query. A trace with from == to is a static
// overlap test of the box (mins,maxs) at that point.
type Tracer interface {
	Trace(from, to, mins, maxs geom.Vec3, ignore string) geom.TraceResult
}

// Terrain is static map geometry plus the spawn points actors enter at.
type Terrain interface {
	Tracer
	Spawn(n uint64) (origin geom.Vec3, yaw float64)
}

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type CommandEnvelope struct {
	ActorID string
	Cmd     protocol.CmdMsg
}

type RecordedJoin struct {
	ActorID string `json:"actor_id"`
	Name    string `json:"name"`
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg     WorldConfig
	terrain Terrain
	logger  *log.Logger

	tick atomic.Uint64

	actors   map[string]*Actor
	clients  map[string]*clientState
	sessions map[string]*BuildSession
	ledger   *ledger.Ledger

	// Structure registry. slots is the entity pool; structures indexes the
	// live subset by id.
	slots             []*Structure
	structures        map[string]*Structure
	structuresVersion uint64

	inbox chan CommandEnvelope
	join  chan JoinRequest
	leave chan string
	admin chan adminReq
	stop  chan struct{}

	nextActorNum  atomic.Uint64
	nextStructNum atomic.Uint64

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	placeStats placementStats
	metrics    atomic.Value // WorldMetrics
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64            `json:"tick"`
	Joins    []RecordedJoin    `json:"joins,omitempty"`
	Leaves   []string          `json:"leaves,omitempty"`
	Commands []RecordedCommand `json:"commands,omitempty"`
	Admin    []AdminOp         `json:"admin,omitempty"`
	Digest   string            `json:"digest"`
}

type RecordedCommand struct {
	ActorID string          `json:"actor_id"`
	Cmd     protocol.CmdMsg `json:"cmd"`
}

type AuditEntry struct {
	Tick        uint64     `json:"tick"`
	Actor       string     `json:"actor"`
	Action      string     `json:"action"` // BUILD_PLACE, BUILD_DESTROY, BUILD_REMOVE
	StructureID string     `json:"structure_id"`
	Piece       string     `json:"piece"`
	Pos         [3]float64 `json:"pos"`
	Yaw         float64    `json:"yaw"`
	Materials   int        `json:"materials,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

type clientState struct {
	Out chan []byte

	// StructuresVersion is the registry version last sent to this client.
	StructuresVersion uint64
	SentStructures    bool
}

func New(cfg WorldConfig, terrain Terrain) *World {
	cfg.applyDefaults()
	return &World{
		cfg:        cfg,
		terrain:    terrain,
		logger:     log.New(io.Discard, "", 0),
		actors:     map[string]*Actor{},
		clients:    map[string]*clientState{},
		sessions:   map[string]*BuildSession{},
		ledger:     ledger.New(),
		slots:      make([]*Structure, cfg.MaxEntities),
		structures: map[string]*Structure{},
		inbox:      make(chan CommandEnvelope, 1024),
		join:       make(chan JoinRequest, 64),
		leave:      make(chan string, 64),
		admin:      make(chan adminReq, 16),
		stop:       make(chan struct{}),
		placeStats: newPlacementStats(),
	}
}

func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

// SetLogger sets the operational logger (warnings such as entity slot
// exhaustion). A nil logger discards output.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	w.logger = l
}
