package state

import (
	"fmt"
	"math"
	"math/big"

	"attnchain/native/platform"
)

// storedIdentity shadows platform.Identity with RLP-friendly field types:
// the attention rate travels as its IEEE-754 bits and the creation time as a
// big integer.
type storedIdentity struct {
	ID                uint64
	VerificationSalt  string
	VerificationPost  string
	Stats             []uint64
	AttentionRateBits uint64
	Position          uint32
	PostsRanked       uint32
	UpdatedThisRound  bool
	CreatedAt         *big.Int
}

func newStoredIdentity(i *platform.Identity) *storedIdentity {
	return &storedIdentity{
		ID:                i.ID,
		VerificationSalt:  i.VerificationSalt,
		VerificationPost:  i.VerificationPost,
		Stats:             append([]uint64(nil), i.Stats...),
		AttentionRateBits: math.Float64bits(i.AttentionRate),
		Position:          i.Position,
		PostsRanked:       i.PostsRanked,
		UpdatedThisRound:  i.UpdatedThisRound,
		CreatedAt:         big.NewInt(i.CreatedAt),
	}
}

func (s *storedIdentity) toIdentity() *platform.Identity {
	out := &platform.Identity{
		ID:               s.ID,
		VerificationSalt: s.VerificationSalt,
		VerificationPost: s.VerificationPost,
		Stats:            append([]uint64(nil), s.Stats...),
		AttentionRate:    math.Float64frombits(s.AttentionRateBits),
		Position:         s.Position,
		PostsRanked:      s.PostsRanked,
		UpdatedThisRound: s.UpdatedThisRound,
	}
	if s.CreatedAt != nil {
		out.CreatedAt = s.CreatedAt.Int64()
	}
	return out
}

// IdentityGet loads an identity record by its external id.
func (m *Manager) IdentityGet(id uint64) (*platform.Identity, bool, error) {
	stored := new(storedIdentity)
	ok, err := m.load(hashedKey(identityPrefix, uint64Key(id)), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toIdentity(), true, nil
}

// IdentityPut stores an identity record and maintains the id index.
func (m *Manager) IdentityPut(i *platform.Identity) error {
	if i == nil {
		return fmt.Errorf("state: nil identity")
	}
	if err := m.indexAdd(hashedKey(identityListKeyBytes), i.ID); err != nil {
		return err
	}
	return m.store(hashedKey(identityPrefix, uint64Key(i.ID)), newStoredIdentity(i))
}

// IdentityDelete removes an identity record and its index entry.
func (m *Manager) IdentityDelete(id uint64) error {
	if err := m.indexRemove(hashedKey(identityListKeyBytes), id); err != nil {
		return err
	}
	return m.trie.Delete(hashedKey(identityPrefix, uint64Key(id)))
}

// IdentityList returns all identity ids in ascending order.
func (m *Manager) IdentityList() ([]uint64, error) {
	return m.loadIDList(hashedKey(identityListKeyBytes))
}

// storedAccount shadows platform.Account.
type storedAccount struct {
	ID        uint64
	Name      string
	Active    bool
	CreatedAt *big.Int
}

// AccountGet loads the wallet binding for an identity id.
func (m *Manager) AccountGet(id uint64) (*platform.Account, bool, error) {
	stored := new(storedAccount)
	ok, err := m.load(hashedKey(accountPrefix, uint64Key(id)), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	out := &platform.Account{ID: stored.ID, Name: stored.Name, Active: stored.Active}
	if stored.CreatedAt != nil {
		out.CreatedAt = stored.CreatedAt.Int64()
	}
	return out, true, nil
}

// AccountPut stores a wallet binding and maintains the id index.
func (m *Manager) AccountPut(a *platform.Account) error {
	if a == nil {
		return fmt.Errorf("state: nil account")
	}
	if a.Name == "" {
		return fmt.Errorf("state: empty account name")
	}
	if err := m.indexAdd(hashedKey(accountListKeyBytes), a.ID); err != nil {
		return err
	}
	return m.store(hashedKey(accountPrefix, uint64Key(a.ID)), &storedAccount{
		ID:        a.ID,
		Name:      a.Name,
		Active:    a.Active,
		CreatedAt: big.NewInt(a.CreatedAt),
	})
}

// AccountDelete removes a wallet binding and its index entry.
func (m *Manager) AccountDelete(id uint64) error {
	if err := m.indexRemove(hashedKey(accountListKeyBytes), id); err != nil {
		return err
	}
	return m.trie.Delete(hashedKey(accountPrefix, uint64Key(id)))
}

// AccountList returns all bound identity ids in ascending order.
func (m *Manager) AccountList() ([]uint64, error) {
	return m.loadIDList(hashedKey(accountListKeyBytes))
}
