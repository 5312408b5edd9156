package ledger

import (
	"fmt"
	"sort"
)

// Ledger holds one material balance per actor. Balances never go negative.
// Not safe for concurrent use; the world loop owns it.
type Ledger struct {
	balances map[string]int
}

func New() *Ledger {
	return &Ledger{balances: map[string]int{}}
}

// Balance returns the actor's materials. Unknown actors hold nothing.
func (l *Ledger) Balance(actorID string) int {
	return l.balances[actorID]
}

// Has reports whether the actor has an entry (i.e. is connected).
func (l *Ledger) Has(actorID string) bool {
	_, ok := l.balances[actorID]
	return ok
}

// Debit removes amount from the actor's balance. Callers check sufficiency
// first; an underflow is reported and leaves the balance untouched.
func (l *Ledger) Debit(actorID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative debit %d for %s", amount, actorID)
	}
	cur := l.balances[actorID]
	if cur < amount {
		return fmt.Errorf("ledger: debit %d exceeds balance %d for %s", amount, cur, actorID)
	}
	l.balances[actorID] = cur - amount
	return nil
}

// ResetOnSpawn sets the balance to starting. Unused materials from a
// previous life are discarded.
func (l *Ledger) ResetOnSpawn(actorID string, starting int) {
	if starting < 0 {
		starting = 0
	}
	l.balances[actorID] = starting
}

// Forget drops the actor's entry on disconnect.
func (l *Ledger) Forget(actorID string) {
	delete(l.balances, actorID)
}

// Entry is one actor's balance, used for digests and admin views.
type Entry struct {
	ActorID string `json:"actor_id"`
	Balance int    `json:"balance"`
}

// Entries returns all balances sorted by actor id.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.balances))
	for id, b := range l.balances {
		out = append(out, Entry{ActorID: id, Balance: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActorID < out[j].ActorID })
	return out
}
