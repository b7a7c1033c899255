package betrules

// Multipliers holds a draw's per-type payout overrides.
type Multipliers map[BetType]int64

// DefaultMultipliers returns the catalog default for every bet type.
func DefaultMultipliers() Multipliers {
	m := make(Multipliers, len(catalog)-1)
	for _, bt := range Types() {
		m[bt] = catalog[bt].DefaultMultiplier
	}
	return m
}

// For returns the multiplier that applies to bt.
func (m Multipliers) For(bt BetType) int64 {
	return MultiplierFor(m, bt)
}

// Validate rejects unknown bet types and non-positive multipliers.
func (m Multipliers) Validate() error {
	for bt, v := range m {
		if !bt.Valid() {
			return &SelectionError{Reason: UnknownBetType, Input: bt.String()}
		}
		if v <= 0 {
			return &SelectionError{Reason: InvalidMultiplier, BetType: bt, Cost: v}
		}
	}
	return nil
}

// Merge returns the defaults overlaid with m's positive entries.
func (m Multipliers) Merge() Multipliers {
	out := DefaultMultipliers()
	for bt, v := range m {
		if bt.Valid() && v > 0 {
			out[bt] = v
		}
	}
	return out
}

// MultiplierFor returns the draw override for bt when it is present and
// positive, otherwise the catalog default.
func MultiplierFor(m Multipliers, bt BetType) int64 {
	if v, ok := m[bt]; ok && v > 0 {
		return v
	}
	if cfg, ok := Lookup(bt); ok {
		return cfg.DefaultMultiplier
	}
	return 0
}

// CombinationsFor returns how many priced sub-bets a selection of n numbers
// makes. PERMUTATION plays every pair, so it is C(n,2) and needs n >= 2.
func CombinationsFor(bt BetType, n int) (int64, error) {
	if !bt.Valid() {
		return 0, &SelectionError{Reason: UnknownBetType, Input: bt.String()}
	}
	if bt != Permutation {
		return 1, nil
	}
	if n < 2 {
		return 0, &SelectionError{Reason: InvalidSelectionCount, BetType: bt, Count: n, Min: 2, Max: catalog[bt].MaxNumbers}
	}
	k := int64(n)
	return k * (k - 1) / 2, nil
}

// TotalCost is the amount debited for a ticket.
func TotalCost(bt BetType, n int, stakePerCombination int64) (int64, error) {
	if stakePerCombination <= 0 {
		return 0, &SelectionError{Reason: InvalidStake, BetType: bt, Cost: stakePerCombination}
	}
	combos, err := CombinationsFor(bt, n)
	if err != nil {
		return 0, err
	}
	return combos * stakePerCombination, nil
}

// PotentialPayout is stake × multiplier. For PERMUTATION pass the
// per-combination stake, not the total cost.
func PotentialPayout(stake, multiplier int64) int64 {
	return stake * multiplier
}

// CheckBalance fails with InsufficientStake when totalCost exceeds available.
func CheckBalance(totalCost, available int64) error {
	if totalCost > available {
		return &SelectionError{Reason: InsufficientStake, Cost: totalCost, Available: available}
	}
	return nil
}

// Pairs lists every unordered pair of numbers in selection order.
func Pairs(numbers []int) [][2]int {
	if len(numbers) < 2 {
		return nil
	}
	out := make([][2]int, 0, len(numbers)*(len(numbers)-1)/2)
	for i := 0; i < len(numbers); i++ {
		for j := i + 1; j < len(numbers); j++ {
			out = append(out, [2]int{numbers[i], numbers[j]})
		}
	}
	return out
}

// Invert reverses the decimal digits of n: 23 -> 32, 7 -> 7, 10 -> 1.
func Invert(n int) int {
	if n < 0 {
		return -Invert(-n)
	}
	out := 0
	for ; n > 0; n /= 10 {
		out = out*10 + n%10
	}
	return out
}

// InvertInPool returns the inversion of n and whether it is worth showing:
// it must differ from n and fall inside 1..pool.
func InvertInPool(n, pool int) (int, bool) {
	inv := Invert(n)
	return inv, inv != n && inv >= 1 && inv <= pool
}
