package betrules

// Selection is a player's pick for one ticket. For BANKA, Numbers holds the
// associated numbers and Base the banker; Base is 0 when unset.
type Selection struct {
	Numbers  []int    `json:"numbers"`
	Base     int      `json:"baseNumber,omitempty"`
	Position Position `json:"position,omitempty"`
}

// All returns every number of the selection, base first.
func (s Selection) All() []int {
	if s.Base == 0 {
		return append([]int(nil), s.Numbers...)
	}
	out := make([]int, 0, len(s.Numbers)+1)
	out = append(out, s.Base)
	return append(out, s.Numbers...)
}

// ValidateSelection checks sel against the rules of bt for a pool of numbers
// 1..pool. It returns nil or a *SelectionError.
func ValidateSelection(bt BetType, sel Selection, pool int) error {
	cfg, ok := Lookup(bt)
	if !ok {
		return &SelectionError{Reason: UnknownBetType, Input: bt.String()}
	}
	n := len(sel.Numbers)

	// A base number only has a slot in BANKA; elsewhere it is one pick too many.
	if !cfg.RequiresBase && sel.Base != 0 {
		return countError(cfg, n+1, cfg.MinNumbers, cfg.MaxNumbers)
	}

	switch bt {
	case Permutation:
		if n < cfg.MinNumbers || n > cfg.MaxNumbers {
			return countError(cfg, n, cfg.MinNumbers, cfg.MaxNumbers)
		}
	case Banka:
		if sel.Base == 0 {
			return &SelectionError{Reason: MissingBaseNumber, BetType: bt}
		}
		if n < 1 || n > cfg.MaxNumbers-1 {
			return countError(cfg, n, 1, cfg.MaxNumbers-1)
		}
	default:
		if n != cfg.MinNumbers {
			return countError(cfg, n, cfg.MinNumbers, cfg.MinNumbers)
		}
	}

	if cfg.RequiresPosition && !sel.Position.Valid() {
		return &SelectionError{Reason: MissingPosition, BetType: bt}
	}

	seen := make(map[int]struct{}, n+1)
	for _, num := range sel.All() {
		if num < 1 || num > pool {
			return &SelectionError{Reason: NumberOutOfRange, BetType: bt, Number: num, Min: 1, Max: pool}
		}
		if _, dup := seen[num]; dup {
			return &SelectionError{Reason: DuplicateNumber, BetType: bt, Number: num}
		}
		seen[num] = struct{}{}
	}
	return nil
}

func countError(cfg Config, got, lo, hi int) *SelectionError {
	return &SelectionError{Reason: InvalidSelectionCount, BetType: cfg.Type, Count: got, Min: lo, Max: hi}
}
