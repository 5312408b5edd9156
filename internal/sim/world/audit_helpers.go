package world

func (w *World) auditStructure(tick uint64, actor string, action string, s *Structure, reason string) {
	if w.auditLogger == nil {
		return
	}
	entry := AuditEntry{
		Tick:        tick,
		Actor:       actor,
		Action:      action,
		StructureID: s.ID,
		Piece:       s.Type.String(),
		Pos:         [3]float64(s.Origin),
		Yaw:         s.Angles[1],
		Reason:      reason,
	}
	if actor != "" && w.ledger.Has(actor) {
		entry.Materials = w.ledger.Balance(actor)
	}
	_ = w.auditLogger.WriteAudit(entry)
}
