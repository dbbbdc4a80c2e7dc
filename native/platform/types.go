package platform

import (
	"fmt"
	"math/big"
	"strings"

	"attnchain/core/types"
)

// Phase enumerates the round lifecycle states. Attention-rate ingestion,
// round finalisation and payment distribution are each legal in exactly one
// phase.
type Phase uint8

const (
	PhaseOpen Phase = iota
	PhaseArLocked
	PhaseFullyLocked
	PhaseDistributing
)

var phaseNames = map[Phase]string{
	PhaseOpen:         "open",
	PhaseArLocked:     "ar_locked",
	PhaseFullyLocked:  "fully_locked",
	PhaseDistributing: "distributing",
}

// legalTransitions is the full transition table; anything absent is rejected.
var legalTransitions = map[Phase]Phase{
	PhaseOpen:         PhaseArLocked,
	PhaseArLocked:     PhaseFullyLocked,
	PhaseFullyLocked:  PhaseDistributing,
	PhaseDistributing: PhaseOpen,
}

// Valid reports whether the phase value is within the supported range.
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// String returns the lowercase phase name, or "unknown" for corrupt values.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// CanAdvance reports whether the transition p -> next is in the legal table.
func (p Phase) CanAdvance(next Phase) bool {
	allowed, ok := legalTransitions[p]
	return ok && allowed == next
}

// UnrankedPosition is the ranking sentinel meaning "not ranked this period".
// Identities carrying it earn nothing when the round is finalised.
const UnrankedPosition uint32 = 0xffffffff

// Platform is the write-once singleton configuration plus the mutable round
// state. The cursor is set if and only if the phase is PhaseDistributing.
type Platform struct {
	Name         string
	RewardDealer string
	RewardSymbol string
	Precision    uint8
	Phase        Phase
	Round        uint64
	HasCursor    bool
	Cursor       string
	BatchTarget  uint64
}

// Clone returns a copy of the platform state.
func (p *Platform) Clone() *Platform {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Identity is a social-media-linked record. It is not itself a wallet; a
// wallet binding is carried by the Account with the same id.
type Identity struct {
	ID               uint64
	VerificationSalt string
	VerificationPost string
	Stats            []uint64
	AttentionRate    float64
	Position         uint32
	PostsRanked      uint32
	UpdatedThisRound bool
	CreatedAt        int64
}

// Clone returns a deep copy of the identity.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Stats = append([]uint64(nil), i.Stats...)
	return &clone
}

// Ranked reports whether the identity holds a real ranking position.
func (i *Identity) Ranked() bool {
	return i != nil && i.Position != UnrankedPosition
}

// Account is the wallet binding for an identity. The external reference name
// is not unique across identities; several identities may pay out to the same
// wallet.
type Account struct {
	ID        uint64
	Name      string
	Active    bool
	CreatedAt int64
}

// Clone returns a copy of the account record.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// AssetEntry registers a reward symbol with its fixed precision.
type AssetEntry struct {
	Symbol    string
	Precision uint8
}

// EscrowEntry accumulates value sent to an identity id that has no bound
// account yet, keyed by (symbol, recipient id). The memo keeps the latest
// transfer's note.
type EscrowEntry struct {
	Symbol    string
	Recipient uint64
	Amount    *big.Int
	Memo      string
}

// Clone returns a deep copy of the escrow entry.
func (e *EscrowEntry) Clone() *EscrowEntry {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Amount != nil {
		clone.Amount = new(big.Int).Set(e.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// PlanEntry is one recipient of a finalised round's payment plan.
type PlanEntry struct {
	ID      uint64
	Account string
	Amount  *big.Int
}

// Clone returns a deep copy of the plan entry.
func (p PlanEntry) Clone() PlanEntry {
	clone := p
	if p.Amount != nil {
		clone.Amount = new(big.Int).Set(p.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return clone
}

// ARUpdate carries one identity's per-period attention data.
type ARUpdate struct {
	ID            uint64
	AttentionRate float64
	Position      uint32
	StatDiff      []uint64
	PostsRanked   uint32
}

// NewAccountRequest describes a delegated account creation. The platform only
// checks that the caller is a registered creator; the key material is passed
// through to the external creator authority untouched.
type NewAccountRequest struct {
	Account          string
	ID               uint64
	VerificationSalt string
	VerificationPost string
	StatDiff         []uint64
	Bytes            uint64
	StakeNet         types.Quantity
	StakeCPU         types.Quantity
	Transfer         bool
	OwnerKeys        []string
	ActiveKeys       []string
}

// NormalizeSymbol upper-cases and validates a symbol string.
func NormalizeSymbol(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if trimmed == "" {
		return "", fmt.Errorf("platform: empty symbol")
	}
	for _, r := range trimmed {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("platform: invalid symbol %q", symbol)
		}
	}
	return trimmed, nil
}
