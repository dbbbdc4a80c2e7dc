package platform

import (
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"attnchain/core/types"
)

type escrowRef struct {
	symbol string
	id     uint64
}

type mockState struct {
	platform   *Platform
	assets     map[string]*AssetEntry
	identities map[uint64]*Identity
	accounts   map[uint64]*Account
	escrows    map[escrowRef]*EscrowEntry
	balances   map[string]map[string]*big.Int
	plans      map[uint64][]PlanEntry
	roles      map[string]map[string]bool
}

func newMockState() *mockState {
	return &mockState{
		assets:     make(map[string]*AssetEntry),
		identities: make(map[uint64]*Identity),
		accounts:   make(map[uint64]*Account),
		escrows:    make(map[escrowRef]*EscrowEntry),
		balances:   make(map[string]map[string]*big.Int),
		plans:      make(map[uint64][]PlanEntry),
		roles:      make(map[string]map[string]bool),
	}
}

func (m *mockState) PlatformGet() (*Platform, bool, error) {
	if m.platform == nil {
		return nil, false, nil
	}
	return m.platform.Clone(), true, nil
}

func (m *mockState) PlatformPut(p *Platform) error {
	m.platform = p.Clone()
	return nil
}

func (m *mockState) AssetGet(symbol string) (*AssetEntry, bool, error) {
	entry, ok := m.assets[symbol]
	if !ok {
		return nil, false, nil
	}
	clone := *entry
	return &clone, true, nil
}

func (m *mockState) AssetPut(entry *AssetEntry) error {
	clone := *entry
	m.assets[entry.Symbol] = &clone
	return nil
}

func (m *mockState) AssetList() ([]string, error) {
	symbols := make([]string, 0, len(m.assets))
	for symbol := range m.assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (m *mockState) IdentityGet(id uint64) (*Identity, bool, error) {
	identity, ok := m.identities[id]
	if !ok {
		return nil, false, nil
	}
	return identity.Clone(), true, nil
}

func (m *mockState) IdentityPut(i *Identity) error {
	m.identities[i.ID] = i.Clone()
	return nil
}

func (m *mockState) IdentityDelete(id uint64) error {
	delete(m.identities, id)
	return nil
}

func (m *mockState) IdentityList() ([]uint64, error) {
	ids := make([]uint64, 0, len(m.identities))
	for id := range m.identities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockState) AccountGet(id uint64) (*Account, bool, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, false, nil
	}
	return account.Clone(), true, nil
}

func (m *mockState) AccountPut(a *Account) error {
	m.accounts[a.ID] = a.Clone()
	return nil
}

func (m *mockState) AccountDelete(id uint64) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockState) AccountList() ([]uint64, error) {
	ids := make([]uint64, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockState) EscrowGet(symbol string, id uint64) (*EscrowEntry, bool, error) {
	entry, ok := m.escrows[escrowRef{symbol, id}]
	if !ok {
		return nil, false, nil
	}
	return entry.Clone(), true, nil
}

func (m *mockState) EscrowPut(entry *EscrowEntry) error {
	m.escrows[escrowRef{entry.Symbol, entry.Recipient}] = entry.Clone()
	return nil
}

func (m *mockState) EscrowDelete(symbol string, id uint64) error {
	delete(m.escrows, escrowRef{symbol, id})
	return nil
}

func (m *mockState) BalanceGet(owner, symbol string) (*big.Int, error) {
	if bySymbol, ok := m.balances[owner]; ok {
		if amount, ok := bySymbol[symbol]; ok {
			return new(big.Int).Set(amount), nil
		}
	}
	return big.NewInt(0), nil
}

func (m *mockState) BalanceSet(owner, symbol string, amount *big.Int) error {
	bySymbol, ok := m.balances[owner]
	if !ok {
		bySymbol = make(map[string]*big.Int)
		m.balances[owner] = bySymbol
	}
	bySymbol[symbol] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) PlanGet(round uint64) ([]PlanEntry, bool, error) {
	entries, ok := m.plans[round]
	if !ok {
		return nil, false, nil
	}
	out := make([]PlanEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Clone())
	}
	return out, true, nil
}

func (m *mockState) PlanPut(round uint64, entries []PlanEntry) error {
	stored := make([]PlanEntry, 0, len(entries))
	for _, entry := range entries {
		stored = append(stored, entry.Clone())
	}
	m.plans[round] = stored
	return nil
}

func (m *mockState) RoleAdd(role, name string) error {
	members, ok := m.roles[role]
	if !ok {
		members = make(map[string]bool)
		m.roles[role] = members
	}
	members[name] = true
	return nil
}

func (m *mockState) HasRole(role, name string) (bool, error) {
	return m.roles[role][name], nil
}

const (
	testAuthority = "platform"
	testSymbol    = "SNAX"
)

func newTestEngine(t *testing.T) (*Engine, *mockState) {
	t.Helper()
	state := newMockState()
	engine := NewEngine(testAuthority)
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_700_000_000 })
	return engine, state
}

func initPlatform(t *testing.T, engine *Engine) {
	t.Helper()
	err := engine.Initialize(testAuthority, "test_platform", "snax", testSymbol, 4, "snax.airdrop")
	require.NoError(t, err)
}

func fundPool(t *testing.T, state *mockState, amount int64) {
	t.Helper()
	require.NoError(t, state.BalanceSet(testAuthority, testSymbol, big.NewInt(amount)))
}

func quantity(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func TestInitializeOnce(t *testing.T) {
	engine, state := newTestEngine(t)

	require.ErrorIs(t, engine.Initialize("intruder", "x", "snax", testSymbol, 4, ""), ErrUnauthorized)

	initPlatform(t, engine)
	require.Equal(t, PhaseOpen, state.platform.Phase)
	require.Equal(t, testSymbol, state.platform.RewardSymbol)
	_, registered, err := state.AssetGet(testSymbol)
	require.NoError(t, err)
	require.True(t, registered)

	err = engine.Initialize(testAuthority, "test_platform", "snax", testSymbol, 4, "")
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestActionsBeforeInitialize(t *testing.T) {
	engine, _ := newTestEngine(t)

	require.ErrorIs(t, engine.LockARUpdate(testAuthority), ErrNotInitialized)
	require.ErrorIs(t, engine.AddSymbol(testAuthority, "SNIX", 4), ErrNotInitialized)
	require.ErrorIs(t, engine.UpdateAR(testAuthority, ARUpdate{ID: 1}, false), ErrNotInitialized)
}

func TestUpdateARRequiresArLockedPhase(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 1105, "test1")

	update := ARUpdate{ID: 1105, AttentionRate: 20.0, Position: 1, StatDiff: []uint64{5, 10, 20, 30}, PostsRanked: 16}

	require.ErrorIs(t, engine.UpdateAR(testAuthority, update, false), ErrInvalidStateTransition)
	require.ErrorIs(t, engine.UpdateARMulti(testAuthority, []ARUpdate{update}, false), ErrInvalidStateTransition)

	require.NoError(t, engine.LockARUpdate(testAuthority))
	require.NoError(t, engine.LockUpdate(testAuthority))

	require.ErrorIs(t, engine.UpdateAR(testAuthority, update, false), ErrInvalidStateTransition)
	require.ErrorIs(t, engine.UpdateARMulti(testAuthority, []ARUpdate{update}, false), ErrInvalidStateTransition)
}

func TestLockTransitions(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)

	require.ErrorIs(t, engine.LockUpdate(testAuthority), ErrInvalidStateTransition)
	require.ErrorIs(t, engine.NextRound(testAuthority), ErrInvalidStateTransition)

	require.NoError(t, engine.LockARUpdate(testAuthority))
	require.Equal(t, PhaseArLocked, state.platform.Phase)
	require.ErrorIs(t, engine.LockARUpdate(testAuthority), ErrInvalidStateTransition)
	require.ErrorIs(t, engine.NextRound(testAuthority), ErrInvalidStateTransition)

	require.NoError(t, engine.LockUpdate(testAuthority))
	require.Equal(t, PhaseFullyLocked, state.platform.Phase)

	require.ErrorIs(t, engine.SendPayments(testAuthority, "", 10), ErrInvalidStateTransition)
}

func addBoundAccount(t *testing.T, engine *Engine, id uint64, name string) {
	t.Helper()
	err := engine.AddAccount(testAuthority, testAuthority, id, "12345", "1083836521751478272", []uint64{5, 10, 15}, name)
	require.NoError(t, err)
}

func TestUpdateARSingle(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 123, "test2")
	require.NoError(t, engine.LockARUpdate(testAuthority))

	update := ARUpdate{ID: 123, AttentionRate: 20.0, Position: 1, StatDiff: []uint64{5, 10, 20, 30}, PostsRanked: 7}
	require.NoError(t, engine.UpdateAR(testAuthority, update, false))

	identity := state.identities[123]
	require.Equal(t, 20.0, identity.AttentionRate)
	require.Equal(t, uint32(1), identity.Position)
	require.Equal(t, uint32(7), identity.PostsRanked)
	require.Equal(t, []uint64{10, 20, 35, 30}, identity.Stats)
	require.True(t, identity.UpdatedThisRound)
}

func TestUpdateARUnknownIdentity(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))

	err := engine.UpdateAR(testAuthority, ARUpdate{ID: 250, AttentionRate: 20.0, Position: 2}, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateARDuplicateInRound(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 1007, "test1")
	require.NoError(t, engine.LockARUpdate(testAuthority))

	update := ARUpdate{ID: 1007, AttentionRate: 300.0, Position: 1, StatDiff: []uint64{51, 10, 210, 30}, PostsRanked: 10}
	require.NoError(t, engine.UpdateAR(testAuthority, update, false))
	require.ErrorIs(t, engine.UpdateAR(testAuthority, update, false), ErrDuplicateUpdateInRound)
}

func TestUpdateARCreateOrUpdate(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))

	update := ARUpdate{ID: 1007, AttentionRate: 300.0, Position: 1, StatDiff: []uint64{51, 10, 210, 30}, PostsRanked: 10}
	require.NoError(t, engine.UpdateAR(testAuthority, update, true))
	require.Equal(t, 300.0, state.identities[1007].AttentionRate)

	// Repeating in create-or-update mode overwrites in place.
	update.AttentionRate = 320.0
	require.NoError(t, engine.UpdateAR(testAuthority, update, true))
	require.Equal(t, 320.0, state.identities[1007].AttentionRate)
	require.Equal(t, []uint64{102, 20, 420, 60}, state.identities[1007].Stats)
}

func TestUpdateARMultiBatchAtomicity(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 123, "test1")
	addBoundAccount(t, engine, 1105, "test2")
	addBoundAccount(t, engine, 1007, "test3")
	require.NoError(t, engine.LockARUpdate(testAuthority))

	batch := []ARUpdate{
		{ID: 123, AttentionRate: 0, Position: UnrankedPosition, StatDiff: []uint64{50, 11, 25, 50}, PostsRanked: 6},
		{ID: 1105, AttentionRate: 50, Position: 3, StatDiff: []uint64{5, 10, 20, 30}, PostsRanked: 10},
		{ID: 1200, AttentionRate: 250.0, Position: 2, StatDiff: []uint64{51, 120, 210, 30}, PostsRanked: 10},
		{ID: 1007, AttentionRate: 300.0, Position: 1, StatDiff: []uint64{51, 10, 210, 30}, PostsRanked: 10},
	}
	err := engine.UpdateARMulti(testAuthority, batch, false)
	require.ErrorIs(t, err, ErrNotFound)

	for _, id := range []uint64{123, 1105, 1007} {
		require.False(t, state.identities[id].UpdatedThisRound, "identity %d must stay untouched", id)
	}
}

func TestUpdateARMultiCreatesAndRepeats(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))

	batch := []ARUpdate{
		{ID: 123, AttentionRate: 0, Position: UnrankedPosition, StatDiff: []uint64{50, 11, 25, 50}, PostsRanked: 6},
		{ID: 1105, AttentionRate: 50, Position: 3, StatDiff: []uint64{5, 10, 20, 30}, PostsRanked: 10},
		{ID: 1200, AttentionRate: 250.0, Position: 2, StatDiff: []uint64{51, 120, 210, 30}, PostsRanked: 10},
		{ID: 1007, AttentionRate: 300.0, Position: 1, StatDiff: []uint64{51, 10, 210, 30}, PostsRanked: 10},
	}
	require.NoError(t, engine.UpdateARMulti(testAuthority, batch, true))
	require.Len(t, state.identities, 4)

	// The same batch again in create-or-update mode updates in place.
	require.NoError(t, engine.UpdateARMulti(testAuthority, batch, true))
	require.Equal(t, []uint64{102, 240, 420, 60}, state.identities[1200].Stats)
}

func TestUpdateARMultiRejectsDuplicateIDsInBatch(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))

	batch := []ARUpdate{
		{ID: 1007, AttentionRate: 300.0, Position: 1},
		{ID: 1007, AttentionRate: 250.0, Position: 2},
	}
	require.ErrorIs(t, engine.UpdateARMulti(testAuthority, batch, true), ErrDuplicateUpdateInRound)
}

func TestAddAccountDuplicateIdentity(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 123, "test2")

	err := engine.AddAccount(testAuthority, testAuthority, 123, "12345", "1083836521751478272", []uint64{5, 10, 15}, "test2")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAddAccountBindsIdentityCreatedByUpdate(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))
	update := ARUpdate{ID: 1007, AttentionRate: 300.0, Position: 1, StatDiff: []uint64{51, 10, 210, 30}, PostsRanked: 10}
	require.NoError(t, engine.UpdateAR(testAuthority, update, true))

	addBoundAccount(t, engine, 1007, "test1")

	identity := state.identities[1007]
	require.Equal(t, 300.0, identity.AttentionRate)
	require.Equal(t, "12345", identity.VerificationSalt)
	require.Equal(t, "test1", state.accounts[1007].Name)
	require.True(t, state.accounts[1007].Active)
}

func TestAddAccountRequiresBinderAuthority(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)

	err := engine.AddAccount("stranger", "stranger", 15, "", "", nil, "test1")
	require.ErrorIs(t, err, ErrUnauthorized)

	// The airdrop agent named at initialize is a designated binder.
	err = engine.AddAccount("snax.airdrop", "snax.airdrop", 15, "", "", nil, "test1")
	require.NoError(t, err)
}

func TestDropAccountAfterUpdate(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.LockARUpdate(testAuthority))
	require.NoError(t, engine.UpdateAR(testAuthority, ARUpdate{ID: 1007, AttentionRate: 300.0, Position: 1}, true))
	addBoundAccount(t, engine, 1007, "test1")

	require.NoError(t, engine.DropAccount(testAuthority, 1007))
	_, bound := state.accounts[1007]
	require.False(t, bound)
	_, exists := state.identities[1007]
	require.True(t, exists, "identity survives an account drop")

	require.ErrorIs(t, engine.DropAccount(testAuthority, 1007), ErrNotFound)
}

func TestDropUserRemovesEverything(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, fundedQuantity(t, state, "test.transf", "20.0000 SNAX"), "hi"))
	addBoundAccount(t, engine, 15, "test1")
	require.NoError(t, engine.DropUser(testAuthority, 15))

	_, exists := state.identities[15]
	require.False(t, exists)
	_, bound := state.accounts[15]
	require.False(t, bound)
}

func TestActivateReclaimsEscrowAccumulatedWhileInactive(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 15, "test1")
	require.NoError(t, engine.Deactivate(testAuthority, 15))

	// Transfers to an inactive binding escrow instead of crediting.
	q := fundedQuantity(t, state, "test.transf", "20.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, "while away"))
	balance, err := state.BalanceGet("test1", testSymbol)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
	require.Zero(t, state.escrows[escrowRef{testSymbol, 15}].Amount.Cmp(big.NewInt(200000)))

	require.NoError(t, engine.Activate(testAuthority, 15))
	balance, err = state.BalanceGet("test1", testSymbol)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(big.NewInt(200000)))
	_, escrowed := state.escrows[escrowRef{testSymbol, 15}]
	require.False(t, escrowed)
}

func TestBinderRoleSurvivesRestart(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)

	// A fresh engine over the same state stands in for a daemon restart.
	restarted := NewEngine(testAuthority)
	restarted.SetState(state)
	err := restarted.AddAccount("snax.airdrop", "snax.airdrop", 15, "", "", nil, "test1")
	require.NoError(t, err)
	require.Equal(t, "test1", state.accounts[15].Name)
}

func TestActivateDeactivate(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 123, "test2")

	require.NoError(t, engine.Deactivate(testAuthority, 123))
	require.False(t, state.accounts[123].Active)
	require.NoError(t, engine.Activate(testAuthority, 123))
	require.True(t, state.accounts[123].Active)

	require.ErrorIs(t, engine.Deactivate(testAuthority, 999), ErrNotFound)
}

// fundedQuantity parses the asset string and gives the owner enough balance
// to cover it.
func fundedQuantity(t *testing.T, state *mockState, owner, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	balance, err := state.BalanceGet(owner, q.Symbol)
	require.NoError(t, err)
	require.NoError(t, state.BalanceSet(owner, q.Symbol, new(big.Int).Add(balance, q.Amount)))
	return q
}

func TestSocialTransferEscrowsForUnboundIdentity(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)

	q := fundedQuantity(t, state, "test.transf", "20.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, "welcome"))

	entry := state.escrows[escrowRef{testSymbol, 15}]
	require.NotNil(t, entry)
	require.Zero(t, entry.Amount.Cmp(big.NewInt(200000)))
	require.Equal(t, "welcome", entry.Memo)

	senderBalance, err := state.BalanceGet("test.transf", testSymbol)
	require.NoError(t, err)
	require.Zero(t, senderBalance.Sign())

	// A second transfer accumulates into the same entry.
	q = fundedQuantity(t, state, "test.transf", "5.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, "again"))
	entry = state.escrows[escrowRef{testSymbol, 15}]
	require.Zero(t, entry.Amount.Cmp(big.NewInt(250000)))
	require.Equal(t, "again", entry.Memo)
}

func TestSocialTransferValidation(t *testing.T) {
	engine, _ := newTestEngine(t)
	initPlatform(t, engine)

	q := quantity(t, "20.0000 SNAX")
	require.ErrorIs(t, engine.SocialTransfer("mallory", "test.transf", 15, q, ""), ErrUnauthorized)

	require.ErrorIs(t, engine.SocialTransfer("test.transf", "test.transf", 15, quantity(t, "20.0000 DOGE"), ""), ErrUnsupportedAsset)
	require.ErrorIs(t, engine.SocialTransfer("test.transf", "test.transf", 15, quantity(t, "20.00 SNAX"), ""), ErrUnsupportedAsset)

	require.ErrorIs(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, ""), ErrInsufficientBalance)

	zero := quantity(t, "0.0000 SNAX")
	require.ErrorIs(t, engine.SocialTransfer("test.transf", "test.transf", 15, zero, ""), ErrInvalidAmount)
}

func TestSocialTransferCreditsBoundAccountDirectly(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	addBoundAccount(t, engine, 15, "test1")

	q := fundedQuantity(t, state, "test.transf", "20.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, ""))

	balance, err := state.BalanceGet("test1", testSymbol)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(big.NewInt(200000)))
	_, escrowed := state.escrows[escrowRef{testSymbol, 15}]
	require.False(t, escrowed)
}

func TestEscrowReconciliationOnBind(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)

	q := fundedQuantity(t, state, "test.transf", "20.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, "hold"))

	addBoundAccount(t, engine, 15, "test1")

	balance, err := state.BalanceGet("test1", testSymbol)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(big.NewInt(200000)))
	_, escrowed := state.escrows[escrowRef{testSymbol, 15}]
	require.False(t, escrowed)
}

func TestEscrowMultiAssetIsolation(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	require.NoError(t, engine.AddSymbol(testAuthority, "SNIX", 4))

	transfers := []struct {
		id    uint64
		asset string
	}{
		{15, "20.0000 SNIX"},
		{16, "20.0000 SNAX"},
		{17, "20.0000 SNAX"},
		{30, "20.0000 SNIX"},
	}
	for _, tr := range transfers {
		q := fundedQuantity(t, state, "test.transf", tr.asset)
		require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", tr.id, q, ""))
	}
	// One more SNAX transfer to an id that already holds SNIX escrow.
	q := fundedQuantity(t, state, "test.transf", "7.0000 SNAX")
	require.NoError(t, engine.SocialTransfer("test.transf", "test.transf", 15, q, ""))

	require.Zero(t, state.escrows[escrowRef{"SNIX", 15}].Amount.Cmp(big.NewInt(200000)))
	require.Zero(t, state.escrows[escrowRef{"SNAX", 15}].Amount.Cmp(big.NewInt(70000)))
	require.Zero(t, state.escrows[escrowRef{"SNAX", 16}].Amount.Cmp(big.NewInt(200000)))

	addBoundAccount(t, engine, 15, "test1")
	snax, err := state.BalanceGet("test1", "SNAX")
	require.NoError(t, err)
	require.Zero(t, snax.Cmp(big.NewInt(70000)))
	snix, err := state.BalanceGet("test1", "SNIX")
	require.NoError(t, err)
	require.Zero(t, snix.Cmp(big.NewInt(200000)))

	_, ok := state.escrows[escrowRef{"SNIX", 15}]
	require.False(t, ok)
	_, ok = state.escrows[escrowRef{"SNAX", 15}]
	require.False(t, ok)
	// Other recipients keep their escrow untouched.
	require.Zero(t, state.escrows[escrowRef{"SNAX", 16}].Amount.Cmp(big.NewInt(200000)))
	require.Zero(t, state.escrows[escrowRef{"SNIX", 30}].Amount.Cmp(big.NewInt(200000)))
}

type stubCreator struct {
	created []NewAccountRequest
	fail    error
}

func (s *stubCreator) CreateAccount(req NewAccountRequest) error {
	if s.fail != nil {
		return s.fail
	}
	s.created = append(s.created, req)
	return nil
}

func TestNewAccountRequiresRegisteredCreator(t *testing.T) {
	engine, state := newTestEngine(t)
	initPlatform(t, engine)
	creator := &stubCreator{}
	engine.SetAccountCreator(creator)

	req := NewAccountRequest{
		Account:          "created11",
		ID:               65,
		VerificationSalt: "hello",
		VerificationPost: "43",
		StatDiff:         []uint64{0, 0, 0},
		Bytes:            4000,
		StakeNet:         quantity(t, "100.0000 SNAX"),
		StakeCPU:         quantity(t, "50.0000 SNAX"),
		OwnerKeys:        []string{"SNAX6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"},
	}
	require.ErrorIs(t, engine.NewAccount("snax.creator", req), ErrUnauthorized)
	require.Empty(t, creator.created)

	require.NoError(t, engine.AddCreator(testAuthority, "snax.creator"))
	require.NoError(t, engine.NewAccount("snax.creator", req))
	require.Len(t, creator.created, 1)
	require.Equal(t, "created11", state.accounts[65].Name)
}
