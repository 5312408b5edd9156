package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ActorName       string            `json:"actor_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	ActorID         string         `json:"actor_id"`
	WorldID         string         `json:"world_id"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
	Pieces          []PieceInfo    `json:"pieces"`
}

type WorldParams struct {
	TickRateHz     int     `json:"tick_rate_hz"`
	GridSize       float64 `json:"grid_size"`
	PreviewRange   float64 `json:"preview_range"`
	CooldownMS     int     `json:"cooldown_ms"`
	BuildEnabled   bool    `json:"build_enabled"`
	StartMaterials int     `json:"start_materials"`
	MaxStructures  int     `json:"max_structures"`
}

type CatalogDigests struct {
	PiecesDigest string `json:"pieces_digest"`
}

// PieceInfo mirrors the server piece table so clients can draw previews.
type PieceInfo struct {
	Type         int        `json:"type"`
	Name         string     `json:"name"`
	Mins         [3]float64 `json:"mins"`
	Maxs         [3]float64 `json:"maxs"`
	Health       int        `json:"health"`
	MaterialCost int        `json:"material_cost"`
	GridSnap     float64    `json:"grid_snap"`
}
