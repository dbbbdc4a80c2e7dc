package state

import (
	"fmt"
	"math/big"

	"attnchain/native/platform"
)

func escrowKey(symbol string, id uint64) []byte {
	return hashedKey(escrowPrefix, []byte(symbol), []byte{':'}, uint64Key(id))
}

// storedEscrow shadows platform.EscrowEntry.
type storedEscrow struct {
	Symbol    string
	Recipient uint64
	Amount    *big.Int
	Memo      string
}

// EscrowGet loads the pending transfer accumulated for (symbol, id).
func (m *Manager) EscrowGet(symbol string, id uint64) (*platform.EscrowEntry, bool, error) {
	stored := new(storedEscrow)
	ok, err := m.load(escrowKey(symbol, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	amount := big.NewInt(0)
	if stored.Amount != nil {
		amount = new(big.Int).Set(stored.Amount)
	}
	return &platform.EscrowEntry{
		Symbol:    stored.Symbol,
		Recipient: stored.Recipient,
		Amount:    amount,
		Memo:      stored.Memo,
	}, true, nil
}

// EscrowPut stores a pending transfer entry.
func (m *Manager) EscrowPut(entry *platform.EscrowEntry) error {
	if entry == nil {
		return fmt.Errorf("state: nil escrow entry")
	}
	if entry.Symbol == "" {
		return fmt.Errorf("state: empty escrow symbol")
	}
	amount := big.NewInt(0)
	if entry.Amount != nil {
		amount = new(big.Int).Set(entry.Amount)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("state: negative escrow amount")
	}
	return m.store(escrowKey(entry.Symbol, entry.Recipient), &storedEscrow{
		Symbol:    entry.Symbol,
		Recipient: entry.Recipient,
		Amount:    amount,
		Memo:      entry.Memo,
	})
}

// EscrowDelete removes the pending transfer entry for (symbol, id).
func (m *Manager) EscrowDelete(symbol string, id uint64) error {
	return m.trie.Delete(escrowKey(symbol, id))
}
