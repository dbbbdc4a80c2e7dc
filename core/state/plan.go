package state

import (
	"fmt"
	"math/big"

	"attnchain/native/platform"
)

// storedPlanEntry shadows platform.PlanEntry.
type storedPlanEntry struct {
	ID      uint64
	Account string
	Amount  *big.Int
}

// PlanGet loads the payment plan recorded for a round. The boolean reports
// whether the round was ever finalised; a finalised round with no eligible
// recipients yields an empty, non-nil slice.
func (m *Manager) PlanGet(round uint64) ([]platform.PlanEntry, bool, error) {
	var stored []storedPlanEntry
	ok, err := m.load(hashedKey(planPrefix, uint64Key(round)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	entries := make([]platform.PlanEntry, 0, len(stored))
	for _, s := range stored {
		amount := big.NewInt(0)
		if s.Amount != nil {
			amount = new(big.Int).Set(s.Amount)
		}
		entries = append(entries, platform.PlanEntry{ID: s.ID, Account: s.Account, Amount: amount})
	}
	return entries, true, nil
}

// PlanPut records the immutable payment plan for a round.
func (m *Manager) PlanPut(round uint64, entries []platform.PlanEntry) error {
	stored := make([]storedPlanEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Account == "" {
			return fmt.Errorf("state: plan entry without account")
		}
		amount := big.NewInt(0)
		if entry.Amount != nil {
			amount = new(big.Int).Set(entry.Amount)
		}
		stored = append(stored, storedPlanEntry{ID: entry.ID, Account: entry.Account, Amount: amount})
	}
	return m.store(hashedKey(planPrefix, uint64Key(round)), stored)
}
