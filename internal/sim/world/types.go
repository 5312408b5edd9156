package world

import (
	"buildgrid.io/internal/protocol"
	"buildgrid.io/internal/sim/catalogs"
	"buildgrid.io/internal/sim/world/logic/geom"
)

// DefaultViewHeight is the eye offset above an actor's origin until the
// client reports its own.
const DefaultViewHeight = 26.0

type Actor struct {
	ID   string
	Name string

	// View state as last reported by the client.
	Origin     geom.Vec3
	ViewAngles geom.Vec3
	ViewHeight float64

	Connected bool

	Events []protocol.Event
}

func (a *Actor) AddEvent(e protocol.Event) {
	a.Events = append(a.Events, e)
}

func (a *Actor) TakeEvents() []protocol.Event {
	ev := a.Events
	a.Events = nil
	return ev
}

// Eye is the view origin placement rays start from.
func (a *Actor) Eye() geom.Vec3 {
	return a.Origin.Add(geom.Vec3{0, 0, a.ViewHeight})
}

// Structure is one placed piece. Owner is a weak reference: the actor may
// have left while the structure stays in the world.
type Structure struct {
	ID     string
	Num    int // entity slot
	Owner  string
	Type   catalogs.PieceType
	Origin geom.Vec3
	Angles geom.Vec3
	Health int
	Alive  bool

	SpawnMS     int64
	NextThinkMS int64
}

// Bounds is the world-space box. Angles are not applied.
func (s *Structure) Bounds() geom.AABB {
	def := catalogs.DefinitionFor(s.Type)
	return geom.Box(s.Origin, def.Mins, def.Maxs)
}

// BuildSession is the per-actor build mode state.
type BuildSession struct {
	Active   bool
	Selected catalogs.PieceType
	Rotation int // degrees, one of 0/90/180/270

	// LastPlaceMS is only meaningful once Placed is set.
	LastPlaceMS int64
	Placed      bool
}

func (s *BuildSession) reset() {
	*s = BuildSession{Selected: catalogs.PieceNone}
}
