package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	Actors         int  `json:"actors"`
	Clients        int  `json:"clients"`
	LiveStructures int  `json:"live_structures"`
	MaxStructures  int  `json:"max_structures"`
	FreeSlots      int  `json:"free_slots"`
	BuildEnabled   bool `json:"build_enabled"`

	Building BuildingConfig `json:"building"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`

	PlaceAccepted uint64            `json:"place_accepted"`
	PlaceRejected map[string]uint64 `json:"place_rejected,omitempty"`
}

type QueueDepths struct {
	Inbox int `json:"inbox"`
	Join  int `json:"join"`
	Leave int `json:"leave"`
	Admin int `json:"admin"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}
