package platform

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputePlanSharesByRateOverPosition(t *testing.T) {
	inputs := []RewardInput{
		{ID: 1, Account: "alpha", AttentionRate: 100, Position: 1},
		{ID: 2, Account: "bravo", AttentionRate: 100, Position: 2},
		{ID: 3, Account: "charlie", AttentionRate: 50, Position: 2},
	}
	entries, total := ComputePlan(inputs, big.NewInt(175000))

	require.Len(t, entries, 3)
	require.Zero(t, entries[0].Amount.Cmp(big.NewInt(100000)))
	require.Zero(t, entries[1].Amount.Cmp(big.NewInt(50000)))
	require.Zero(t, entries[2].Amount.Cmp(big.NewInt(25000)))
	require.Zero(t, total.Cmp(big.NewInt(175000)))
}

func TestComputePlanLowerPositionEarnsMore(t *testing.T) {
	inputs := []RewardInput{
		{ID: 1, Account: "alpha", AttentionRate: 80, Position: 5},
		{ID: 2, Account: "bravo", AttentionRate: 80, Position: 1},
	}
	entries, _ := ComputePlan(inputs, big.NewInt(600000))

	require.Len(t, entries, 2)
	var alpha, bravo *big.Int
	for _, entry := range entries {
		switch entry.Account {
		case "alpha":
			alpha = entry.Amount
		case "bravo":
			bravo = entry.Amount
		}
	}
	require.NotNil(t, alpha)
	require.NotNil(t, bravo)
	require.Positive(t, bravo.Cmp(alpha))
}

func TestComputePlanExcludesUnrankedAndZeroRate(t *testing.T) {
	inputs := []RewardInput{
		{ID: 1, Account: "alpha", AttentionRate: 100, Position: UnrankedPosition},
		{ID: 2, Account: "bravo", AttentionRate: 0, Position: 1},
		{ID: 3, Account: "charlie", AttentionRate: 100, Position: 1},
	}
	entries, total := ComputePlan(inputs, big.NewInt(100000))

	require.Len(t, entries, 1)
	require.Equal(t, "charlie", entries[0].Account)
	require.Zero(t, total.Cmp(big.NewInt(100000)))
}

func TestComputePlanTruncationStaysWithinBudget(t *testing.T) {
	inputs := []RewardInput{
		{ID: 1, Account: "alpha", AttentionRate: 1, Position: 1},
		{ID: 2, Account: "bravo", AttentionRate: 1, Position: 1},
		{ID: 3, Account: "charlie", AttentionRate: 1, Position: 1},
	}
	budget := big.NewInt(100)
	entries, total := ComputePlan(inputs, budget)

	require.Len(t, entries, 3)
	for _, entry := range entries {
		require.Zero(t, entry.Amount.Cmp(big.NewInt(33)))
	}
	require.Zero(t, total.Cmp(big.NewInt(99)))
	require.True(t, total.Cmp(budget) <= 0)
}

func TestComputePlanOrdering(t *testing.T) {
	inputs := []RewardInput{
		{ID: 9, Account: "zulu", AttentionRate: 10, Position: 1},
		{ID: 7, Account: "alpha", AttentionRate: 10, Position: 1},
		{ID: 3, Account: "alpha", AttentionRate: 10, Position: 1},
	}
	entries, _ := ComputePlan(inputs, big.NewInt(3000))

	require.Len(t, entries, 3)
	require.Equal(t, "alpha", entries[0].Account)
	require.Equal(t, uint64(3), entries[0].ID)
	require.Equal(t, "alpha", entries[1].Account)
	require.Equal(t, uint64(7), entries[1].ID)
	require.Equal(t, "zulu", entries[2].Account)
}

func TestComputePlanDegenerateInputs(t *testing.T) {
	entries, total := ComputePlan(nil, big.NewInt(1000))
	require.Empty(t, entries)
	require.Zero(t, total.Sign())

	entries, total = ComputePlan([]RewardInput{{ID: 1, Account: "alpha", AttentionRate: 10, Position: 1}}, nil)
	require.Empty(t, entries)
	require.Zero(t, total.Sign())

	entries, total = ComputePlan([]RewardInput{{ID: 1, Account: "alpha", AttentionRate: 10, Position: 1}}, big.NewInt(0))
	require.Empty(t, entries)
	require.Zero(t, total.Sign())
}
