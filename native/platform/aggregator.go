package platform

import (
	"fmt"

	"attnchain/core/events"
)

// UpdateAR applies one identity's attention-rate update for the current
// round. Updates are legal only while the round is in the AR-locked phase.
// In plain mode the identity must exist and may be touched once per round;
// in create-or-update mode an unknown id is materialised and repeated
// updates overwrite in place.
func (e *Engine) UpdateAR(caller string, update ARUpdate, addIfNotExist bool) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	p, err := e.platform()
	if err != nil {
		return err
	}
	if p.Phase != PhaseArLocked {
		return fmt.Errorf("attention update in phase %s: %w", p.Phase, ErrInvalidStateTransition)
	}
	if err := e.validateUpdate(update, addIfNotExist); err != nil {
		return err
	}
	return e.applyUpdate(p, update, addIfNotExist)
}

// UpdateARMulti applies a batch of updates as a set: the whole batch is
// validated first and any invalid entry fails the call with nothing applied.
func (e *Engine) UpdateARMulti(caller string, updates []ARUpdate, addIfNotExist bool) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	p, err := e.platform()
	if err != nil {
		return err
	}
	if p.Phase != PhaseArLocked {
		return fmt.Errorf("attention update in phase %s: %w", p.Phase, ErrInvalidStateTransition)
	}
	seen := make(map[uint64]struct{}, len(updates))
	for _, update := range updates {
		if _, dup := seen[update.ID]; dup {
			return fmt.Errorf("identity %d twice in batch: %w", update.ID, ErrDuplicateUpdateInRound)
		}
		seen[update.ID] = struct{}{}
		if err := e.validateUpdate(update, addIfNotExist); err != nil {
			return err
		}
	}
	for _, update := range updates {
		if err := e.applyUpdate(p, update, addIfNotExist); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateUpdate(update ARUpdate, addIfNotExist bool) error {
	if update.AttentionRate < 0 {
		return fmt.Errorf("identity %d: negative attention rate: %w", update.ID, ErrInvalidAmount)
	}
	identity, exists, err := e.state.IdentityGet(update.ID)
	if err != nil {
		return err
	}
	if !exists {
		if !addIfNotExist {
			return fmt.Errorf("identity %d: %w", update.ID, ErrNotFound)
		}
		return nil
	}
	if !addIfNotExist && identity.UpdatedThisRound {
		return fmt.Errorf("identity %d: %w", update.ID, ErrDuplicateUpdateInRound)
	}
	return nil
}

func (e *Engine) applyUpdate(p *Platform, update ARUpdate, addIfNotExist bool) error {
	identity, exists, err := e.state.IdentityGet(update.ID)
	if err != nil {
		return err
	}
	if !exists {
		now := e.now()
		identity = &Identity{ID: update.ID, Position: UnrankedPosition, CreatedAt: now}
		e.emit(events.IdentityRegistered{ID: update.ID, CreatedAt: now}.Event())
	} else {
		identity = identity.Clone()
	}
	identity.AttentionRate = update.AttentionRate
	identity.Position = update.Position
	identity.PostsRanked = update.PostsRanked
	identity.Stats = addStats(identity.Stats, update.StatDiff)
	identity.UpdatedThisRound = true
	if err := e.state.IdentityPut(identity); err != nil {
		return err
	}
	e.emit(events.AttentionUpdated{
		ID:       update.ID,
		Rate:     update.AttentionRate,
		Position: update.Position,
		Round:    p.Round,
	}.Event())
	return nil
}

// addStats accumulates a per-period stat delta into the running counters,
// growing the vector when the delta carries more positions.
func addStats(stats, diff []uint64) []uint64 {
	if len(diff) > len(stats) {
		grown := make([]uint64, len(diff))
		copy(grown, stats)
		stats = grown
	} else {
		stats = append([]uint64(nil), stats...)
	}
	for i, d := range diff {
		stats[i] += d
	}
	return stats
}
