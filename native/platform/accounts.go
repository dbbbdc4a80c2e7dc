package platform

import (
	"fmt"
	"strings"

	"attnchain/core/events"
)

// AddAccount binds a wallet to an identity, creating the identity when it
// does not exist yet (an attention-rate update in create mode may already
// have materialised it). Any escrow pending for the identity is credited to
// the freshly bound wallet atomically with the bind.
func (e *Engine) AddAccount(caller, creator string, id uint64, salt, verificationPost string, statDiff []uint64, account string) error {
	if err := e.requireBinder(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	name := strings.TrimSpace(account)
	if name == "" {
		return fmt.Errorf("platform: empty account name")
	}

	if _, bound, err := e.state.AccountGet(id); err != nil {
		return err
	} else if bound {
		return fmt.Errorf("identity %d already bound: %w", id, ErrAlreadyExists)
	}

	identity, exists, err := e.state.IdentityGet(id)
	if err != nil {
		return err
	}
	now := e.now()
	if !exists {
		identity = &Identity{
			ID:               id,
			VerificationSalt: salt,
			VerificationPost: verificationPost,
			Stats:            append([]uint64(nil), statDiff...),
			Position:         UnrankedPosition,
			CreatedAt:        now,
		}
		e.emit(events.IdentityRegistered{ID: id, CreatedAt: now}.Event())
	} else {
		identity = identity.Clone()
		identity.VerificationSalt = salt
		identity.VerificationPost = verificationPost
	}
	if err := e.state.IdentityPut(identity); err != nil {
		return err
	}

	if err := e.state.AccountPut(&Account{ID: id, Name: name, Active: true, CreatedAt: now}); err != nil {
		return err
	}
	if err := e.reconcileEscrow(id, name); err != nil {
		return err
	}
	e.emit(events.AccountBound{ID: id, Account: name, Creator: creator}.Event())
	return nil
}

// reconcileEscrow credits the freshly bound account with every pending
// escrow entry for the identity, across all registered symbols, and deletes
// the entries. Runs inside the bind action so no window exists where the
// bind succeeded but escrow remains unclaimed.
func (e *Engine) reconcileEscrow(id uint64, account string) error {
	symbols, err := e.state.AssetList()
	if err != nil {
		return err
	}
	for _, symbol := range symbols {
		entry, ok, err := e.state.EscrowGet(symbol, id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := e.creditBalance(account, symbol, entry.Amount); err != nil {
			return err
		}
		if err := e.state.EscrowDelete(symbol, id); err != nil {
			return err
		}
		e.emit(events.EscrowReconciled{Symbol: symbol, ID: id, Account: account, Amount: entry.Amount}.Event())
	}
	return nil
}

// NewAccount provisions a ledger account through the external creator
// authority and binds it. The platform only verifies the caller is a
// registered creator; key material passes through untouched.
func (e *Engine) NewAccount(caller string, req NewAccountRequest) error {
	if _, err := e.platform(); err != nil {
		return err
	}
	allowed, err := e.state.HasRole(RoleCreator, caller)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	if e.creator == nil {
		return fmt.Errorf("platform: account creator not configured")
	}
	if err := e.creator.CreateAccount(req); err != nil {
		return fmt.Errorf("platform: create account: %w", err)
	}
	return e.AddAccount(e.authority, caller, req.ID, req.VerificationSalt, req.VerificationPost, req.StatDiff, req.Account)
}

// Activate marks the identity's bound account as reward-eligible again.
func (e *Engine) Activate(caller string, id uint64) error {
	return e.setAccountActive(caller, id, true)
}

// Deactivate excludes the identity's bound account from reward distribution
// without dropping it.
func (e *Engine) Deactivate(caller string, id uint64) error {
	return e.setAccountActive(caller, id, false)
}

func (e *Engine) setAccountActive(caller string, id uint64, active bool) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	account, ok, err := e.state.AccountGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("identity %d has no account: %w", id, ErrNotFound)
	}
	account = account.Clone()
	account.Active = active
	if err := e.state.AccountPut(account); err != nil {
		return err
	}
	// Transfers escrow while the binding is inactive, so reactivation has to
	// claim whatever accumulated in the meantime.
	if active {
		return e.reconcileEscrow(id, account.Name)
	}
	return nil
}

// DropAccount removes the identity's wallet binding. The identity itself and
// its attention data survive; subsequent social transfers escrow again.
func (e *Engine) DropAccount(caller string, id uint64) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	if _, ok, err := e.state.AccountGet(id); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("identity %d has no account: %w", id, ErrNotFound)
	}
	return e.state.AccountDelete(id)
}

// DropUser removes an identity entirely: its account binding and any escrow
// still pending under its id go with it.
func (e *Engine) DropUser(caller string, id uint64) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	if _, ok, err := e.state.IdentityGet(id); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("identity %d: %w", id, ErrNotFound)
	}
	if _, bound, err := e.state.AccountGet(id); err != nil {
		return err
	} else if bound {
		if err := e.state.AccountDelete(id); err != nil {
			return err
		}
	}
	symbols, err := e.state.AssetList()
	if err != nil {
		return err
	}
	for _, symbol := range symbols {
		if _, ok, err := e.state.EscrowGet(symbol, id); err != nil {
			return err
		} else if ok {
			if err := e.state.EscrowDelete(symbol, id); err != nil {
				return err
			}
		}
	}
	return e.state.IdentityDelete(id)
}
