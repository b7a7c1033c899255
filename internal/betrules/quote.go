package betrules

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// Quote is the priced form of a valid selection.
type Quote struct {
	BetType             BetType   `json:"betType"`
	Selection           Selection `json:"selection"`
	Combinations        int64     `json:"combinations"`
	StakePerCombination int64     `json:"stakePerCombination"`
	TotalCost           int64     `json:"totalCost"`
	Multiplier          int64     `json:"multiplier"`
	PotentialPayout     int64     `json:"potentialPayout"`
	Pairs               [][2]int  `json:"pairs,omitempty"`
	Inverted            int       `json:"inverted,omitempty"`
}

// Price validates sel and computes its cost and payout. stake is per
// combination; for every type but PERMUTATION that is the ticket stake.
func Price(bt BetType, sel Selection, stake int64, m Multipliers, pool int) (Quote, error) {
	if err := ValidateSelection(bt, sel, pool); err != nil {
		return Quote{}, err
	}
	total, err := TotalCost(bt, len(sel.Numbers), stake)
	if err != nil {
		return Quote{}, err
	}
	combos, _ := CombinationsFor(bt, len(sel.Numbers))
	mult := MultiplierFor(m, bt)

	q := Quote{
		BetType:             bt,
		Selection:           sel,
		Combinations:        combos,
		StakePerCombination: stake,
		TotalCost:           total,
		Multiplier:          mult,
		PotentialPayout:     PotentialPayout(stake, mult),
	}
	switch bt {
	case Permutation:
		q.Pairs = Pairs(sel.Numbers)
	case Anagramme:
		if inv, ok := InvertInPool(sel.Numbers[0], pool); ok {
			q.Inverted = inv
		}
	}
	return q, nil
}

// QuickPick draws a random valid selection for bt from 1..pool.
func QuickPick(bt BetType, pool int, rng *rand.Rand) (Selection, error) {
	cfg, ok := Lookup(bt)
	if !ok {
		return Selection{}, &SelectionError{Reason: UnknownBetType, Input: bt.String()}
	}
	if pool < cfg.MinNumbers {
		return Selection{}, &SelectionError{Reason: NumberOutOfRange, BetType: bt, Number: cfg.MinNumbers, Min: 1, Max: pool}
	}
	picked := rng.Perm(pool)[:cfg.MinNumbers]
	for i := range picked {
		picked[i]++
	}

	var sel Selection
	switch bt {
	case Banka:
		sel.Base = picked[0]
		sel.Numbers = picked[1:]
	case ChancePlus:
		sel.Numbers = picked
		sel.Position = PositionFirst
	default:
		sel.Numbers = picked
	}
	slices.Sort(sel.Numbers)
	return sel, nil
}

// EncodeNumbers renders the comma-separated numbers field of a ticket.
// BANKA lists the base first.
func EncodeNumbers(sel Selection) string {
	all := sel.All()
	parts := make([]string, len(all))
	for i, n := range all {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// DecodeNumbers parses the comma-separated numbers field.
func DecodeNumbers(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
