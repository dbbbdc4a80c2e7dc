package platform

import (
	"math/big"
	"sort"
)

// RewardInput captures the raw per-binding inputs when a round is finalised.
type RewardInput struct {
	ID            uint64
	Account       string
	AttentionRate float64
	Position      uint32
}

// rewardWeight derives the payout weight for a single input. The weight is
// the attention rate divided by the ranking position, so a lower position
// amplifies the same rate. Unranked identities and non-positive rates weigh
// nothing.
func rewardWeight(in RewardInput) *big.Rat {
	if in.Position == UnrankedPosition || in.AttentionRate <= 0 {
		return nil
	}
	rate := new(big.Rat).SetFloat64(in.AttentionRate)
	if rate == nil || rate.Sign() <= 0 {
		return nil
	}
	position := in.Position
	if position == 0 {
		position = 1
	}
	return rate.Quo(rate, new(big.Rat).SetUint64(uint64(position)))
}

// ComputePlan derives the immutable payment plan for a round: each eligible
// binding receives floor(budget * weight / totalWeight) base units. The
// entries come back ordered by (account name, identity id) ascending, the
// order the payment cursor walks them in. The returned total never exceeds
// the budget; the truncation remainder stays in the pool.
func ComputePlan(inputs []RewardInput, budget *big.Int) ([]PlanEntry, *big.Int) {
	total := big.NewInt(0)
	if budget == nil || budget.Sign() <= 0 || len(inputs) == 0 {
		return []PlanEntry{}, total
	}

	type weighted struct {
		input  RewardInput
		weight *big.Rat
	}
	candidates := make([]weighted, 0, len(inputs))
	totalWeight := new(big.Rat)
	for _, in := range inputs {
		w := rewardWeight(in)
		if w == nil {
			continue
		}
		candidates = append(candidates, weighted{input: in, weight: w})
		totalWeight.Add(totalWeight, w)
	}
	if len(candidates) == 0 || totalWeight.Sign() <= 0 {
		return []PlanEntry{}, total
	}

	entries := make([]PlanEntry, 0, len(candidates))
	budgetRat := new(big.Rat).SetInt(budget)
	for _, c := range candidates {
		share := new(big.Rat).Quo(c.weight, totalWeight)
		payout := new(big.Rat).Mul(budgetRat, share)
		amount := new(big.Int).Quo(payout.Num(), payout.Denom())
		if amount.Sign() <= 0 {
			continue
		}
		entries = append(entries, PlanEntry{
			ID:      c.input.ID,
			Account: c.input.Account,
			Amount:  amount,
		})
		total.Add(total, amount)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Account == entries[j].Account {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Account < entries[j].Account
	})
	return entries, total
}
