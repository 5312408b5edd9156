package protocol

// Command kinds carried by CMD.
const (
	CmdBuildMode   = "BUILD_MODE"
	CmdBuildSelect = "BUILD_SELECT"
	CmdBuildRotate = "BUILD_ROTATE"
	CmdBuildPlace  = "BUILD_PLACE"
	CmdView        = "VIEW"
	CmdRespawn     = "RESPAWN"
)

// Event types carried in STATE.events.
const (
	EventBuildPlace   = "BUILD_PLACE"
	EventBuildFail    = "BUILD_FAIL"
	EventBuildDestroy = "BUILD_DESTROY"
	EventBuildStatus  = "BUILD_STATUS"
)

// CMD (client -> server)
type CmdMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	ActorID         string       `json:"actor_id,omitempty"`
	Commands        []CommandReq `json:"commands"`
}

type CommandReq struct {
	Kind string `json:"kind"`

	// BUILD_SELECT: piece number ("1") or name ("wall").
	Piece string `json:"piece,omitempty"`

	// VIEW: actor view state. Movement is authoritative elsewhere; the build
	// core trusts the reported origin.
	Origin     *[3]float64 `json:"origin,omitempty"`
	Angles     *[3]float64 `json:"angles,omitempty"`
	ViewHeight *float64    `json:"view_height,omitempty"`
}

// STATE (server -> client)
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	ActorID         string `json:"actor_id"`

	Self   SelfState `json:"self"`
	Events []Event   `json:"events"`

	// Structures is the full replicated set; it is only present when it
	// changed since the last STATE delivered to this client.
	StructuresVersion uint64           `json:"structures_version"`
	Structures        []StructureState `json:"structures,omitempty"`
}

type SelfState struct {
	Origin     [3]float64 `json:"origin"`
	Angles     [3]float64 `json:"angles"`
	ViewHeight float64    `json:"view_height"`
	Materials  int        `json:"materials"`
	Build      BuildState `json:"build"`
}

type BuildState struct {
	Active        bool   `json:"active"`
	Selected      string `json:"selected"`
	Rotation      int    `json:"rotation"`
	LastPlaceMS   int64  `json:"last_place_ms"`
	CooldownUntil int64  `json:"cooldown_until_ms"`
}

type StructureState struct {
	ID     string     `json:"id"`
	Num    int        `json:"num"`
	Piece  string     `json:"piece"`
	Owner  string     `json:"owner,omitempty"`
	Origin [3]float64 `json:"origin"`
	Angles [3]float64 `json:"angles"`
	Health int        `json:"health"`
}

type Event map[string]interface{}
