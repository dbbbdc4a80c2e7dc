package platform

import (
	"fmt"
	"math/big"

	"attnchain/core/events"
)

// LockARUpdate moves the round from Open to the AR-locked phase, opening the
// window for attention-rate ingestion.
func (e *Engine) LockARUpdate(caller string) error {
	return e.advancePhase(caller, PhaseOpen, PhaseArLocked)
}

// LockUpdate moves the round from AR-locked to fully locked; no attention
// updates of any kind are accepted afterwards.
func (e *Engine) LockUpdate(caller string) error {
	return e.advancePhase(caller, PhaseArLocked, PhaseFullyLocked)
}

func (e *Engine) advancePhase(caller string, from, to Phase) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	p, err := e.platform()
	if err != nil {
		return err
	}
	if p.Phase != from || !p.Phase.CanAdvance(to) {
		return fmt.Errorf("%s -> %s from %s: %w", from, to, p.Phase, ErrInvalidStateTransition)
	}
	p = p.Clone()
	p.Phase = to
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	e.emit(events.RoundLocked{Round: p.Round, Phase: to.String()}.Event())
	return nil
}

// NextRound finalises the fully locked round: it computes the payment plan
// over every active binding whose identity was updated this round, records
// the plan against the new round number and arms the payment cursor. An
// empty plan completes the round immediately.
func (e *Engine) NextRound(caller string) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	p, err := e.platform()
	if err != nil {
		return err
	}
	if p.Phase != PhaseFullyLocked {
		return fmt.Errorf("next round in phase %s: %w", p.Phase, ErrInvalidStateTransition)
	}

	round := p.Round + 1
	if _, done, err := e.state.PlanGet(round); err != nil {
		return err
	} else if done {
		return fmt.Errorf("round %d already planned: %w", round, ErrAlreadyExists)
	}

	inputs, err := e.collectRewardInputs()
	if err != nil {
		return err
	}
	budget, err := e.roundBudget(p)
	if err != nil {
		return err
	}
	entries, total := ComputePlan(inputs, budget)

	pool, err := e.state.BalanceGet(e.authority, p.RewardSymbol)
	if err != nil {
		return err
	}
	if total.Cmp(pool) > 0 {
		return fmt.Errorf("plan total %s exceeds pool %s: %w", total, pool, ErrInsufficientPool)
	}

	if err := e.state.PlanPut(round, entries); err != nil {
		return err
	}
	p = p.Clone()
	p.Round = round

	if len(entries) == 0 {
		if err := e.completeRound(p); err != nil {
			return err
		}
		e.emit(events.RoundFinalized{Round: round, Recipients: 0, Total: total}.Event())
		e.emit(events.RoundCompleted{Round: round}.Event())
		return nil
	}
	p.Phase = PhaseDistributing
	p.HasCursor = true
	p.Cursor = ""
	p.BatchTarget = uint64(len(entries))
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	e.emit(events.RoundFinalized{Round: round, Recipients: uint64(len(entries)), Total: total}.Event())
	return nil
}

// roundBudget resolves the reward budget for the round being finalised: the
// configured emission when set, otherwise the whole treasury pool. A
// configured emission larger than the pool fails the round.
func (e *Engine) roundBudget(p *Platform) (*big.Int, error) {
	pool, err := e.state.BalanceGet(e.authority, p.RewardSymbol)
	if err != nil {
		return nil, err
	}
	if e.emission == nil {
		return pool, nil
	}
	if e.emission.Cmp(pool) > 0 {
		return nil, fmt.Errorf("emission %s exceeds pool %s: %w", e.emission, pool, ErrInsufficientPool)
	}
	return new(big.Int).Set(e.emission), nil
}

func (e *Engine) collectRewardInputs() ([]RewardInput, error) {
	ids, err := e.state.AccountList()
	if err != nil {
		return nil, err
	}
	inputs := make([]RewardInput, 0, len(ids))
	for _, id := range ids {
		account, ok, err := e.state.AccountGet(id)
		if err != nil {
			return nil, err
		}
		if !ok || !account.Active {
			continue
		}
		identity, ok, err := e.state.IdentityGet(id)
		if err != nil {
			return nil, err
		}
		if !ok || !identity.UpdatedThisRound {
			continue
		}
		inputs = append(inputs, RewardInput{
			ID:            id,
			Account:       account.Name,
			AttentionRate: identity.AttentionRate,
			Position:      identity.Position,
		})
	}
	return inputs, nil
}

// SendPayments distributes up to accountCount plan entries, resuming
// strictly after lowerAccountName. The caller must echo the cursor exactly:
// an empty name against an in-progress cursor is rejected, and a name
// pointing back into the distributed range fails rather than double-pay.
// Entries sharing the batch's last wallet name are flushed together so the
// name-based cursor never splits duplicates.
func (e *Engine) SendPayments(caller, lowerAccountName string, accountCount uint64) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	p, err := e.platform()
	if err != nil {
		return err
	}
	if p.Phase != PhaseDistributing || !p.HasCursor {
		return fmt.Errorf("send payments in phase %s: %w", p.Phase, ErrInvalidStateTransition)
	}
	if accountCount == 0 {
		return fmt.Errorf("zero account count: %w", ErrInvalidAmount)
	}
	if lowerAccountName != p.Cursor {
		if lowerAccountName != "" && lowerAccountName < p.Cursor {
			return fmt.Errorf("cursor %q behind %q: %w", lowerAccountName, p.Cursor, ErrAlreadyPaid)
		}
		return fmt.Errorf("cursor %q, expected %q: %w", lowerAccountName, p.Cursor, ErrCursorMismatch)
	}

	entries, ok, err := e.state.PlanGet(p.Round)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("round %d has no plan: %w", p.Round, ErrNotFound)
	}

	start := 0
	for start < len(entries) && entries[start].Account <= lowerAccountName && lowerAccountName != "" {
		start++
	}
	if start >= len(entries) {
		return fmt.Errorf("plan exhausted past %q: %w", lowerAccountName, ErrAlreadyPaid)
	}
	end := start + int(accountCount)
	if end > len(entries) {
		end = len(entries)
	}
	// Never split a run of identical wallet names across batches.
	for end < len(entries) && entries[end].Account == entries[end-1].Account {
		end++
	}
	batch := entries[start:end]

	total := big.NewInt(0)
	for _, entry := range batch {
		total.Add(total, entry.Amount)
	}
	pool, err := e.state.BalanceGet(e.authority, p.RewardSymbol)
	if err != nil {
		return err
	}
	if total.Cmp(pool) > 0 {
		return fmt.Errorf("batch total %s exceeds pool %s: %w", total, pool, ErrInsufficientPool)
	}
	for _, entry := range batch {
		if err := e.debitBalance(e.authority, p.RewardSymbol, entry.Amount); err != nil {
			return err
		}
		if err := e.creditBalance(entry.Account, p.RewardSymbol, entry.Amount); err != nil {
			return err
		}
	}

	p = p.Clone()
	p.Cursor = batch[len(batch)-1].Account
	if end == len(entries) {
		if err := e.completeRound(p); err != nil {
			return err
		}
		e.emit(events.PaymentsSent{Round: p.Round, Count: uint64(len(batch)), Cursor: p.Cursor}.Event())
		e.emit(events.RoundCompleted{Round: p.Round}.Event())
		return nil
	}
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	e.emit(events.PaymentsSent{Round: p.Round, Count: uint64(len(batch)), Cursor: p.Cursor}.Event())
	return nil
}

// completeRound returns the platform to the open phase, clears the cursor
// and resets every identity's per-round update flag. Callers emit the
// completion event once the writes are through.
func (e *Engine) completeRound(p *Platform) error {
	p.Phase = PhaseOpen
	p.HasCursor = false
	p.Cursor = ""
	p.BatchTarget = 0
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	ids, err := e.state.IdentityList()
	if err != nil {
		return err
	}
	for _, id := range ids {
		identity, ok, err := e.state.IdentityGet(id)
		if err != nil {
			return err
		}
		if !ok || !identity.UpdatedThisRound {
			continue
		}
		identity = identity.Clone()
		identity.UpdatedThisRound = false
		if err := e.state.IdentityPut(identity); err != nil {
			return err
		}
	}
	return nil
}
