package state

import (
	"fmt"

	"attnchain/native/platform"
)

// storedPlatform shadows platform.Platform with RLP-friendly field types.
type storedPlatform struct {
	Name         string
	RewardDealer string
	RewardSymbol string
	Precision    uint8
	Phase        uint8
	Round        uint64
	HasCursor    bool
	Cursor       string
	BatchTarget  uint64
}

// PlatformGet loads the platform singleton. The boolean reports whether the
// platform has been initialized.
func (m *Manager) PlatformGet() (*platform.Platform, bool, error) {
	stored := new(storedPlatform)
	ok, err := m.load(hashedKey(platformStateKeyBytes), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	phase := platform.Phase(stored.Phase)
	if !phase.Valid() {
		return nil, false, fmt.Errorf("state: corrupt platform phase %d", stored.Phase)
	}
	return &platform.Platform{
		Name:         stored.Name,
		RewardDealer: stored.RewardDealer,
		RewardSymbol: stored.RewardSymbol,
		Precision:    stored.Precision,
		Phase:        phase,
		Round:        stored.Round,
		HasCursor:    stored.HasCursor,
		Cursor:       stored.Cursor,
		BatchTarget:  stored.BatchTarget,
	}, true, nil
}

// PlatformPut stores the platform singleton.
func (m *Manager) PlatformPut(p *platform.Platform) error {
	if p == nil {
		return fmt.Errorf("state: nil platform")
	}
	if !p.Phase.Valid() {
		return fmt.Errorf("state: invalid platform phase %d", p.Phase)
	}
	return m.store(hashedKey(platformStateKeyBytes), &storedPlatform{
		Name:         p.Name,
		RewardDealer: p.RewardDealer,
		RewardSymbol: p.RewardSymbol,
		Precision:    p.Precision,
		Phase:        uint8(p.Phase),
		Round:        p.Round,
		HasCursor:    p.HasCursor,
		Cursor:       p.Cursor,
		BatchTarget:  p.BatchTarget,
	})
}

// AssetGet retrieves a registered asset by symbol.
func (m *Manager) AssetGet(symbol string) (*platform.AssetEntry, bool, error) {
	entry := new(platform.AssetEntry)
	ok, err := m.load(hashedKey(assetPrefix, []byte(symbol)), entry)
	if err != nil || !ok {
		return nil, false, err
	}
	return entry, true, nil
}

// AssetPut registers an asset and records it in the sorted symbol index.
func (m *Manager) AssetPut(entry *platform.AssetEntry) error {
	if entry == nil {
		return fmt.Errorf("state: nil asset entry")
	}
	if entry.Symbol == "" {
		return fmt.Errorf("state: empty asset symbol")
	}
	listKey := hashedKey(assetListKeyBytes)
	var symbols []string
	if _, err := m.load(listKey, &symbols); err != nil {
		return err
	}
	found := false
	for _, symbol := range symbols {
		if symbol == entry.Symbol {
			found = true
			break
		}
	}
	if !found {
		symbols = append(symbols, entry.Symbol)
		for i := len(symbols) - 1; i > 0 && symbols[i] < symbols[i-1]; i-- {
			symbols[i], symbols[i-1] = symbols[i-1], symbols[i]
		}
		if err := m.store(listKey, symbols); err != nil {
			return err
		}
	}
	return m.store(hashedKey(assetPrefix, []byte(entry.Symbol)), entry)
}

// AssetList returns all registered symbols in sorted order.
func (m *Manager) AssetList() ([]string, error) {
	var symbols []string
	if _, err := m.load(hashedKey(assetListKeyBytes), &symbols); err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}
