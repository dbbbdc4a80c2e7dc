package platform

import (
	"fmt"

	"attnchain/core/events"
	"attnchain/core/types"
)

// SocialTransfer moves value from a ledger account to a social identity id.
// When the identity already has an active bound wallet the transfer credits
// it directly; otherwise the amount accumulates in escrow under
// (symbol, recipient id) until an account is bound.
func (e *Engine) SocialTransfer(caller, from string, toID uint64, quantity types.Quantity, memo string) error {
	if caller != from {
		return ErrUnauthorized
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("transfer of %s: %w", quantity, ErrInvalidAmount)
	}
	asset, ok, err := e.state.AssetGet(quantity.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("symbol %s: %w", quantity.Symbol, ErrUnsupportedAsset)
	}
	if quantity.Precision != asset.Precision {
		return fmt.Errorf("symbol %s expects precision %d, got %d: %w",
			asset.Symbol, asset.Precision, quantity.Precision, ErrUnsupportedAsset)
	}

	if err := e.debitBalance(from, asset.Symbol, quantity.Amount); err != nil {
		return err
	}

	account, bound, err := e.state.AccountGet(toID)
	if err != nil {
		return err
	}
	if bound && account.Active {
		if err := e.creditBalance(account.Name, asset.Symbol, quantity.Amount); err != nil {
			return err
		}
		e.emit(events.SocialTransfer{From: from, ID: toID, Symbol: asset.Symbol, Amount: quantity.Amount}.Event())
		return nil
	}

	entry, ok, err := e.state.EscrowGet(asset.Symbol, toID)
	if err != nil {
		return err
	}
	if !ok {
		entry = &EscrowEntry{Symbol: asset.Symbol, Recipient: toID, Amount: quantity.Clone().Amount, Memo: memo}
	} else {
		entry = entry.Clone()
		entry.Amount.Add(entry.Amount, quantity.Amount)
		entry.Memo = memo
	}
	if err := e.state.EscrowPut(entry); err != nil {
		return err
	}
	e.emit(events.SocialTransfer{From: from, ID: toID, Symbol: asset.Symbol, Amount: quantity.Amount}.Event())
	e.emit(events.EscrowAccumulated{Symbol: asset.Symbol, ID: toID, Amount: entry.Amount, Memo: memo}.Event())
	return nil
}
