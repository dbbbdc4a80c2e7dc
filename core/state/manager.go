package state

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"attnchain/storage/trie"
)

// Manager provides typed access to the platform tables persisted in the
// state trie. Keys are prefixed then keccak-hashed before hitting the trie;
// records are RLP encoded.
type Manager struct {
	trie *trie.Trie
}

// NewManager creates a state manager operating on the provided trie.
func NewManager(tr *trie.Trie) *Manager {
	return &Manager{trie: tr}
}

// Trie exposes the underlying trie for commit/rollback orchestration.
func (m *Manager) Trie() *trie.Trie {
	return m.trie
}

func hashedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, part := range parts {
		size += len(part)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return ethcrypto.Keccak256(buf)
}

func uint64Key(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func (m *Manager) load(key []byte, out interface{}) (bool, error) {
	data, err := m.trie.Get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) store(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.trie.Update(key, encoded)
}

// --- sorted uint64 index lists ---

func (m *Manager) loadIDList(key []byte) ([]uint64, error) {
	var list []uint64
	if _, err := m.load(key, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []uint64{}
	}
	return list, nil
}

func (m *Manager) indexAdd(key []byte, id uint64) error {
	list, err := m.loadIDList(key)
	if err != nil {
		return err
	}
	pos := sort.Search(len(list), func(i int) bool { return list[i] >= id })
	if pos < len(list) && list[pos] == id {
		return nil
	}
	list = append(list, 0)
	copy(list[pos+1:], list[pos:])
	list[pos] = id
	return m.store(key, list)
}

func (m *Manager) indexRemove(key []byte, id uint64) error {
	list, err := m.loadIDList(key)
	if err != nil {
		return err
	}
	pos := sort.Search(len(list), func(i int) bool { return list[i] >= id })
	if pos >= len(list) || list[pos] != id {
		return nil
	}
	list = append(list[:pos], list[pos+1:]...)
	return m.store(key, list)
}

// --- balances (external token sub-ledger) ---

func balanceKey(owner, symbol string) []byte {
	return hashedKey(balancePrefix, []byte(symbol), []byte{':'}, []byte(owner))
}

// BalanceGet retrieves a token balance for the provided owner and symbol.
// Missing balances read as zero.
func (m *Manager) BalanceGet(owner, symbol string) (*big.Int, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("state: empty balance owner")
	}
	amount := new(big.Int)
	ok, err := m.load(balanceKey(owner, symbol), amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

// BalanceSet stores a token balance for the provided owner and symbol.
func (m *Manager) BalanceSet(owner, symbol string, amount *big.Int) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("state: empty balance owner")
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("state: negative balance for %s", owner)
	}
	return m.store(balanceKey(owner, symbol), amount)
}

// --- roles ---

func roleKey(role string) []byte {
	return hashedKey(rolePrefix, []byte(role))
}

// RoleAdd associates a name with the specified role. Duplicate assignments
// are ignored while the stored list remains sorted for determinism.
func (m *Manager) RoleAdd(role, name string) error {
	role = strings.TrimSpace(role)
	name = strings.TrimSpace(name)
	if role == "" || name == "" {
		return fmt.Errorf("state: role and name must not be empty")
	}
	key := roleKey(role)
	var members []string
	if _, err := m.load(key, &members); err != nil {
		return err
	}
	for _, member := range members {
		if member == name {
			return nil
		}
	}
	members = append(members, name)
	sort.Strings(members)
	return m.store(key, members)
}

// HasRole reports whether the provided name carries the specified role.
func (m *Manager) HasRole(role, name string) (bool, error) {
	var members []string
	if _, err := m.load(roleKey(strings.TrimSpace(role)), &members); err != nil {
		return false, err
	}
	for _, member := range members {
		if member == name {
			return true, nil
		}
	}
	return false, nil
}
