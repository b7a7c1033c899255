// Package catalog holds the static reference data of the platform: lottery
// operators and the mobile money providers players withdraw to.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrStakeBelowMinimum = errors.New("stake below operator minimum")
	ErrStakeAboveMaximum = errors.New("stake above operator maximum")
)

// Operator is a national lottery whose draws are sold on the platform.
type Operator struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Country      string `json:"country" yaml:"country"`
	DialCode     string `json:"dialCode" yaml:"dial_code"`
	Icon         string `json:"icon" yaml:"icon"`
	Color        string `json:"color" yaml:"color"`
	NumbersPool  int    `json:"numbersPool" yaml:"numbers_pool"`
	NumbersDrawn int    `json:"numbersDrawn" yaml:"numbers_drawn"`
	MinBet       int64  `json:"minBet" yaml:"min_bet"`
	MaxBet       int64  `json:"maxBet" yaml:"max_bet"`
}

// CheckStake enforces the operator's per-ticket limits on a total cost.
func (o Operator) CheckStake(amount int64) error {
	if amount < o.MinBet {
		return fmt.Errorf("%w: %d < %d", ErrStakeBelowMinimum, amount, o.MinBet)
	}
	if o.MaxBet > 0 && amount > o.MaxBet {
		return fmt.Errorf("%w: %d > %d", ErrStakeAboveMaximum, amount, o.MaxBet)
	}
	return nil
}

func (o Operator) validate() error {
	switch {
	case o.ID == "":
		return errors.New("operator id is required")
	case o.NumbersDrawn < 1:
		return fmt.Errorf("operator %s: numbers_drawn must be positive", o.ID)
	case o.NumbersPool < o.NumbersDrawn:
		return fmt.Errorf("operator %s: numbers_pool %d smaller than numbers_drawn %d", o.ID, o.NumbersPool, o.NumbersDrawn)
	case o.MinBet <= 0:
		return fmt.Errorf("operator %s: min_bet must be positive", o.ID)
	case o.MaxBet < o.MinBet:
		return fmt.Errorf("operator %s: max_bet below min_bet", o.ID)
	}
	return nil
}

// DefaultOperators are the lotteries available out of the box.
func DefaultOperators() []Operator {
	base := Operator{NumbersPool: 90, NumbersDrawn: 5, MinBet: 100, MaxBet: 50000}
	ops := []Operator{
		{ID: "togo-kadoo", Name: "Lotto Kadoo", Country: "Togo", DialCode: "+228", Icon: "🇹🇬", Color: "#FFD700"},
		{ID: "benin-lotto", Name: "Bénin Lotto", Country: "Bénin", DialCode: "+229", Icon: "🇧🇯", Color: "#FF6B00"},
		{ID: "ivoire-lonaci", Name: "Lonaci", Country: "Côte d'Ivoire", DialCode: "+225", Icon: "🇨🇮", Color: "#4F00BC"},
		{ID: "nigeria-greenlotto", Name: "Green Lotto", Country: "Nigeria", DialCode: "+234", Icon: "🇳🇬", Color: "#009DD9"},
		{ID: "senegal-pmu", Name: "PMU Sénégal", Country: "Sénégal", DialCode: "+221", Icon: "🇸🇳", Color: "#00A651"},
	}
	for i := range ops {
		ops[i].NumbersPool = base.NumbersPool
		ops[i].NumbersDrawn = base.NumbersDrawn
		ops[i].MinBet = base.MinBet
		ops[i].MaxBet = base.MaxBet
	}
	return ops
}

// Catalog is an immutable, ordered set of operators.
type Catalog struct {
	order []string
	byID  map[string]Operator
}

// New builds a catalog, rejecting invalid or duplicate operators.
func New(ops []Operator) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Operator, len(ops))}
	for _, op := range ops {
		if err := op.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[op.ID]; dup {
			return nil, fmt.Errorf("duplicate operator %s", op.ID)
		}
		c.byID[op.ID] = op
		c.order = append(c.order, op.ID)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultOperators())
	if err != nil {
		panic(err)
	}
	return c
}

type operatorsFile struct {
	Operators []Operator `yaml:"operators"`
}

// Load reads operators from a YAML file. An empty path yields the defaults.
// Fields omitted in the file inherit the default pool and bet limits.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operators file: %w", err)
	}
	var f operatorsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse operators file: %w", err)
	}
	if len(f.Operators) == 0 {
		return nil, fmt.Errorf("operators file %s lists no operators", path)
	}
	for i := range f.Operators {
		op := &f.Operators[i]
		if op.NumbersPool == 0 {
			op.NumbersPool = 90
		}
		if op.NumbersDrawn == 0 {
			op.NumbersDrawn = 5
		}
		if op.MinBet == 0 {
			op.MinBet = 100
		}
		if op.MaxBet == 0 {
			op.MaxBet = 50000
		}
	}
	return New(f.Operators)
}

func (c *Catalog) Get(id string) (Operator, error) {
	op, ok := c.byID[id]
	if !ok {
		return Operator{}, fmt.Errorf("%w: %s", ErrUnknownOperator, id)
	}
	return op, nil
}

func (c *Catalog) All() []Operator {
	out := make([]Operator, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Countries lists the distinct operator countries, sorted.
func (c *Catalog) Countries() []string {
	seen := map[string]bool{}
	var out []string
	for _, op := range c.byID {
		if !seen[op.Country] {
			seen[op.Country] = true
			out = append(out, op.Country)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) ByCountry(country string) []Operator {
	var out []Operator
	for _, op := range c.All() {
		if op.Country == country {
			out = append(out, op)
		}
	}
	return out
}
