package world

// systemUpkeep gives every live structure its periodic think once its next
// think time has passed.
func (w *World) systemUpkeep(nowTick uint64) {
	nowMS := w.nowMS(nowTick)
	for _, s := range w.LiveStructures() {
		if nowMS < s.NextThinkMS {
			continue
		}
		w.structureThink(s, nowMS)
	}
}

// structureThink is the per-structure upkeep hook. It only re-arms for now;
// decay and effects would go here.
func (w *World) structureThink(s *Structure, nowMS int64) {
	s.NextThinkMS = nowMS + w.cfg.Building.UpkeepIntervalMS
}
