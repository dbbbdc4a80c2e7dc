package platform

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"attnchain/core/events"
	"attnchain/core/types"
)

var errNilState = errors.New("platform engine: state not configured")

// RoleCreator marks accounts allowed to drive delegated account creation.
const RoleCreator = "creator"

// RoleBinder marks accounts allowed to bind wallets via AddAccount. Stored
// in state so the grant survives a restart.
const RoleBinder = "binder"

// engineState is the persistence surface the engine runs against. It is
// implemented by core/state.Manager.
type engineState interface {
	PlatformGet() (*Platform, bool, error)
	PlatformPut(*Platform) error

	AssetGet(symbol string) (*AssetEntry, bool, error)
	AssetPut(*AssetEntry) error
	AssetList() ([]string, error)

	IdentityGet(id uint64) (*Identity, bool, error)
	IdentityPut(*Identity) error
	IdentityDelete(id uint64) error
	IdentityList() ([]uint64, error)

	AccountGet(id uint64) (*Account, bool, error)
	AccountPut(*Account) error
	AccountDelete(id uint64) error
	AccountList() ([]uint64, error)

	EscrowGet(symbol string, id uint64) (*EscrowEntry, bool, error)
	EscrowPut(*EscrowEntry) error
	EscrowDelete(symbol string, id uint64) error

	BalanceGet(owner, symbol string) (*big.Int, error)
	BalanceSet(owner, symbol string, amount *big.Int) error

	PlanGet(round uint64) ([]PlanEntry, bool, error)
	PlanPut(round uint64, entries []PlanEntry) error

	RoleAdd(role, name string) error
	HasRole(role, name string) (bool, error)
}

// AccountCreator is the external authority that provisions ledger accounts.
// The platform verifies the caller is a registered creator and hands the
// request through.
type AccountCreator interface {
	CreateAccount(req NewAccountRequest) error
}

// Engine wires the platform business logic with persistence, authorization
// and event emission.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	nowFn     func() int64
	creator   AccountCreator
	authority string
	binders   map[string]struct{}
	emission  *big.Int
}

// NewEngine constructs a platform engine acting under the given platform
// authority account name.
func NewEngine(authority string) *Engine {
	return &Engine{
		emitter:   events.NoopEmitter{},
		nowFn:     func() int64 { return time.Now().Unix() },
		authority: authority,
		binders:   make(map[string]struct{}),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetAccountCreator configures the external creator authority consulted by
// NewAccount.
func (e *Engine) SetAccountCreator(creator AccountCreator) { e.creator = creator }

// AllowBinder grants an in-process authority permission to call AddAccount
// (airdrop and social-transfer services). The airdrop agent named at
// Initialize is granted through state instead and survives restarts.
func (e *Engine) AllowBinder(name string) {
	if name == "" {
		return
	}
	e.binders[name] = struct{}{}
}

// SetRoundEmission fixes the per-round reward budget. Without it each round
// distributes the full treasury pool.
func (e *Engine) SetRoundEmission(amount *big.Int) {
	if amount == nil {
		e.emission = nil
		return
	}
	e.emission = new(big.Int).Set(amount)
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(platformEvent{evt: evt})
}

type platformEvent struct {
	evt *types.Event
}

func (p platformEvent) EventType() string {
	if p.evt == nil {
		return ""
	}
	return p.evt.Type
}

func (p platformEvent) Event() *types.Event { return p.evt }

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) requireState() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return nil
}

func (e *Engine) requirePlatform(caller string) error {
	if caller != e.authority {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireBinder(caller string) error {
	if caller == e.authority {
		return nil
	}
	if _, ok := e.binders[caller]; ok {
		return nil
	}
	if err := e.requireState(); err != nil {
		return err
	}
	allowed, err := e.state.HasRole(RoleBinder, caller)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) platform() (*Platform, error) {
	if err := e.requireState(); err != nil {
		return nil, err
	}
	p, ok, err := e.state.PlatformGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return p, nil
}

// Initialize registers the default reward asset and opens round zero. The
// platform singleton is write-once; a second call fails.
func (e *Engine) Initialize(caller, name, rewardDealer, symbol string, precision uint8, airdrop string) error {
	if err := e.requireState(); err != nil {
		return err
	}
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, ok, err := e.state.PlatformGet(); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInitialized
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if err := e.state.AssetPut(&AssetEntry{Symbol: normalized, Precision: precision}); err != nil {
		return err
	}
	p := &Platform{
		Name:         name,
		RewardDealer: rewardDealer,
		RewardSymbol: normalized,
		Precision:    precision,
		Phase:        PhaseOpen,
		Round:        0,
	}
	if err := e.state.PlatformPut(p); err != nil {
		return err
	}
	if airdrop != "" {
		if err := e.state.RoleAdd(RoleBinder, airdrop); err != nil {
			return err
		}
	}
	e.emit(events.PlatformInitialized{Name: name, Symbol: normalized, Precision: precision}.Event())
	return nil
}

// AddSymbol registers an additional reward symbol.
func (e *Engine) AddSymbol(caller, symbol string, precision uint8) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if _, ok, err := e.state.AssetGet(normalized); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("symbol %s: %w", normalized, ErrAlreadyExists)
	}
	if err := e.state.AssetPut(&AssetEntry{Symbol: normalized, Precision: precision}); err != nil {
		return err
	}
	e.emit(events.SymbolAdded{Symbol: normalized, Precision: precision}.Event())
	return nil
}

// AddCreator registers an account allowed to drive delegated account
// creation through NewAccount.
func (e *Engine) AddCreator(caller, name string) error {
	if err := e.requirePlatform(caller); err != nil {
		return err
	}
	if _, err := e.platform(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("platform: empty creator name")
	}
	if err := e.state.RoleAdd(RoleCreator, name); err != nil {
		return err
	}
	e.emit(events.CreatorAdded{Name: name}.Event())
	return nil
}

// creditBalance adds amount to owner's balance in symbol.
func (e *Engine) creditBalance(owner, symbol string, amount *big.Int) error {
	balance, err := e.state.BalanceGet(owner, symbol)
	if err != nil {
		return err
	}
	return e.state.BalanceSet(owner, symbol, new(big.Int).Add(balance, amount))
}

// debitBalance subtracts amount from owner's balance in symbol, failing when
// the balance cannot cover it.
func (e *Engine) debitBalance(owner, symbol string, amount *big.Int) error {
	balance, err := e.state.BalanceGet(owner, symbol)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return e.state.BalanceSet(owner, symbol, new(big.Int).Sub(balance, amount))
}
