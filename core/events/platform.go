package events

import (
	"math/big"
	"strconv"

	"attnchain/core/types"
)

const (
	TypePlatformInitialized = "platform.initialized"
	TypeSymbolAdded         = "platform.symbol_added"
	TypeCreatorAdded        = "platform.creator_added"
	TypeIdentityRegistered  = "platform.identity_registered"
	TypeAccountBound        = "platform.account_bound"
	TypeAttentionUpdated    = "platform.attention_updated"
	TypeRoundLocked         = "platform.round_locked"
	TypeRoundFinalized      = "platform.round_finalized"
	TypePaymentsSent        = "platform.payments_sent"
	TypeRoundCompleted      = "platform.round_completed"
	TypeEscrowAccumulated   = "platform.escrow_accumulated"
	TypeEscrowReconciled    = "platform.escrow_reconciled"
	TypeSocialTransfer      = "platform.social_transfer"
)

type PlatformInitialized struct {
	Name      string
	Symbol    string
	Precision uint8
}

func (PlatformInitialized) EventType() string { return TypePlatformInitialized }

func (e PlatformInitialized) Event() *types.Event {
	return &types.Event{
		Type: TypePlatformInitialized,
		Attributes: map[string]string{
			"name":      e.Name,
			"symbol":    e.Symbol,
			"precision": strconv.FormatUint(uint64(e.Precision), 10),
		},
	}
}

type SymbolAdded struct {
	Symbol    string
	Precision uint8
}

func (SymbolAdded) EventType() string { return TypeSymbolAdded }

func (e SymbolAdded) Event() *types.Event {
	return &types.Event{
		Type: TypeSymbolAdded,
		Attributes: map[string]string{
			"symbol":    e.Symbol,
			"precision": strconv.FormatUint(uint64(e.Precision), 10),
		},
	}
}

type CreatorAdded struct {
	Name string
}

func (CreatorAdded) EventType() string { return TypeCreatorAdded }

func (e CreatorAdded) Event() *types.Event {
	return &types.Event{
		Type:       TypeCreatorAdded,
		Attributes: map[string]string{"name": e.Name},
	}
}

type IdentityRegistered struct {
	ID        uint64
	CreatedAt int64
}

func (IdentityRegistered) EventType() string { return TypeIdentityRegistered }

func (e IdentityRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeIdentityRegistered,
		Attributes: map[string]string{
			"id":        strconv.FormatUint(e.ID, 10),
			"createdAt": strconv.FormatInt(e.CreatedAt, 10),
		},
	}
}

type AccountBound struct {
	ID      uint64
	Account string
	Creator string
}

func (AccountBound) EventType() string { return TypeAccountBound }

func (e AccountBound) Event() *types.Event {
	return &types.Event{
		Type: TypeAccountBound,
		Attributes: map[string]string{
			"id":      strconv.FormatUint(e.ID, 10),
			"account": e.Account,
			"creator": e.Creator,
		},
	}
}

type AttentionUpdated struct {
	ID       uint64
	Rate     float64
	Position uint32
	Round    uint64
}

func (AttentionUpdated) EventType() string { return TypeAttentionUpdated }

func (e AttentionUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeAttentionUpdated,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(e.ID, 10),
			"rate":     strconv.FormatFloat(e.Rate, 'f', -1, 64),
			"position": strconv.FormatUint(uint64(e.Position), 10),
			"round":    strconv.FormatUint(e.Round, 10),
		},
	}
}

type RoundLocked struct {
	Round uint64
	Phase string
}

func (RoundLocked) EventType() string { return TypeRoundLocked }

func (e RoundLocked) Event() *types.Event {
	return &types.Event{
		Type: TypeRoundLocked,
		Attributes: map[string]string{
			"round": strconv.FormatUint(e.Round, 10),
			"phase": e.Phase,
		},
	}
}

type RoundFinalized struct {
	Round      uint64
	Recipients uint64
	Total      *big.Int
}

func (RoundFinalized) EventType() string { return TypeRoundFinalized }

func (e RoundFinalized) Event() *types.Event {
	return &types.Event{
		Type: TypeRoundFinalized,
		Attributes: map[string]string{
			"round":      strconv.FormatUint(e.Round, 10),
			"recipients": strconv.FormatUint(e.Recipients, 10),
			"total":      formatAmount(e.Total),
		},
	}
}

type PaymentsSent struct {
	Round  uint64
	Count  uint64
	Cursor string
}

func (PaymentsSent) EventType() string { return TypePaymentsSent }

func (e PaymentsSent) Event() *types.Event {
	return &types.Event{
		Type: TypePaymentsSent,
		Attributes: map[string]string{
			"round":  strconv.FormatUint(e.Round, 10),
			"count":  strconv.FormatUint(e.Count, 10),
			"cursor": e.Cursor,
		},
	}
}

type RoundCompleted struct {
	Round uint64
}

func (RoundCompleted) EventType() string { return TypeRoundCompleted }

func (e RoundCompleted) Event() *types.Event {
	return &types.Event{
		Type:       TypeRoundCompleted,
		Attributes: map[string]string{"round": strconv.FormatUint(e.Round, 10)},
	}
}

type EscrowAccumulated struct {
	Symbol string
	ID     uint64
	Amount *big.Int
	Memo   string
}

func (EscrowAccumulated) EventType() string { return TypeEscrowAccumulated }

func (e EscrowAccumulated) Event() *types.Event {
	return &types.Event{
		Type: TypeEscrowAccumulated,
		Attributes: map[string]string{
			"symbol": e.Symbol,
			"id":     strconv.FormatUint(e.ID, 10),
			"amount": formatAmount(e.Amount),
			"memo":   e.Memo,
		},
	}
}

type EscrowReconciled struct {
	Symbol  string
	ID      uint64
	Account string
	Amount  *big.Int
}

func (EscrowReconciled) EventType() string { return TypeEscrowReconciled }

func (e EscrowReconciled) Event() *types.Event {
	return &types.Event{
		Type: TypeEscrowReconciled,
		Attributes: map[string]string{
			"symbol":  e.Symbol,
			"id":      strconv.FormatUint(e.ID, 10),
			"account": e.Account,
			"amount":  formatAmount(e.Amount),
		},
	}
}

type SocialTransfer struct {
	From   string
	ID     uint64
	Symbol string
	Amount *big.Int
}

func (SocialTransfer) EventType() string { return TypeSocialTransfer }

func (e SocialTransfer) Event() *types.Event {
	return &types.Event{
		Type: TypeSocialTransfer,
		Attributes: map[string]string{
			"from":   e.From,
			"id":     strconv.FormatUint(e.ID, 10),
			"symbol": e.Symbol,
			"amount": formatAmount(e.Amount),
		},
	}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
