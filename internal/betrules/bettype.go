// Package betrules validates and prices Lotto Happy bets.
//
// Everything here is a pure function of its inputs: no I/O, no shared
// mutable state. Callers run validation, then cost, then payout before a
// ticket is submitted anywhere.
package betrules

import (
	"fmt"
	"strings"
)

// BetType is one of the nine wager kinds offered on a draw.
type BetType int

const (
	NAP1 BetType = iota + 1
	NAP2
	NAP3
	NAP4
	NAP5
	Permutation
	Banka
	ChancePlus
	Anagramme
)

var betTypeNames = [...]string{
	NAP1:        "NAP1",
	NAP2:        "NAP2",
	NAP3:        "NAP3",
	NAP4:        "NAP4",
	NAP5:        "NAP5",
	Permutation: "PERMUTATION",
	Banka:       "BANKA",
	ChancePlus:  "CHANCE_PLUS",
	Anagramme:   "ANAGRAMME",
}

// Types lists every bet type in catalog order.
func Types() []BetType {
	return []BetType{NAP1, NAP2, NAP3, NAP4, NAP5, Permutation, Banka, ChancePlus, Anagramme}
}

func (bt BetType) Valid() bool {
	return bt >= NAP1 && bt <= Anagramme
}

func (bt BetType) String() string {
	if !bt.Valid() {
		return fmt.Sprintf("BetType(%d)", int(bt))
	}
	return betTypeNames[bt]
}

// ParseBetType accepts the wire name of a bet type, case-insensitively.
func ParseBetType(s string) (BetType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, bt := range Types() {
		if betTypeNames[bt] == s {
			return bt, nil
		}
	}
	return 0, &SelectionError{Reason: UnknownBetType, Input: s}
}

func (bt BetType) MarshalText() ([]byte, error) {
	if !bt.Valid() {
		return nil, &SelectionError{Reason: UnknownBetType, Input: bt.String()}
	}
	return []byte(betTypeNames[bt]), nil
}

func (bt *BetType) UnmarshalText(text []byte) error {
	parsed, err := ParseBetType(string(text))
	if err != nil {
		return err
	}
	*bt = parsed
	return nil
}

// Position is the draw slot a CHANCE_PLUS bet targets.
type Position string

const (
	PositionFirst Position = "first"
	PositionLast  Position = "last"
)

func (p Position) Valid() bool {
	return p == PositionFirst || p == PositionLast
}

// Config describes the selection rules and default payout of a bet type.
type Config struct {
	Type                  BetType `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	Icon                  string  `json:"icon"`
	MinNumbers            int     `json:"minNumbers"`
	MaxNumbers            int     `json:"maxNumbers"`
	DefaultMultiplier     int64   `json:"defaultMultiplier"`
	RequiresBase          bool    `json:"requiresBase,omitempty"`
	RequiresPosition      bool    `json:"requiresPosition,omitempty"`
	GeneratesCombinations bool    `json:"autoGeneratesCombinations,omitempty"`
}

var catalog = [...]Config{
	NAP1: {Type: NAP1, Name: "NAP 1", Description: "Trouvez 1 numéro parmi les 5 tirés", Icon: "🎯",
		MinNumbers: 1, MaxNumbers: 1, DefaultMultiplier: 10},
	NAP2: {Type: NAP2, Name: "NAP 2", Description: "Trouvez 2 numéros parmi les 5 tirés", Icon: "🎲",
		MinNumbers: 2, MaxNumbers: 2, DefaultMultiplier: 500},
	NAP3: {Type: NAP3, Name: "NAP 3", Description: "Trouvez 3 numéros parmi les 5 tirés", Icon: "🎰",
		MinNumbers: 3, MaxNumbers: 3, DefaultMultiplier: 2500},
	NAP4: {Type: NAP4, Name: "NAP 4", Description: "Trouvez 4 numéros parmi les 5 tirés", Icon: "💎",
		MinNumbers: 4, MaxNumbers: 4, DefaultMultiplier: 10000},
	NAP5: {Type: NAP5, Name: "NAP 5", Description: "Trouvez les 5 numéros tirés", Icon: "👑",
		MinNumbers: 5, MaxNumbers: 5, DefaultMultiplier: 100000},
	Permutation: {Type: Permutation, Name: "Permutation", Description: "Jouez toutes les paires de vos numéros", Icon: "🔄",
		MinNumbers: 3, MaxNumbers: 10, DefaultMultiplier: 500, GeneratesCombinations: true},
	Banka: {Type: Banka, Name: "Banka", Description: "Un numéro de base associé à d'autres numéros", Icon: "🏦",
		MinNumbers: 2, MaxNumbers: 11, DefaultMultiplier: 500, RequiresBase: true},
	ChancePlus: {Type: ChancePlus, Name: "Chance+", Description: "Un numéro au premier ou au dernier rang", Icon: "🍀",
		MinNumbers: 1, MaxNumbers: 1, DefaultMultiplier: 90, RequiresPosition: true},
	Anagramme: {Type: Anagramme, Name: "Anagramme", Description: "Un numéro et son inverse", Icon: "🔀",
		MinNumbers: 1, MaxNumbers: 1, DefaultMultiplier: 10},
}

// Lookup returns the catalog entry for bt.
func Lookup(bt BetType) (Config, bool) {
	if !bt.Valid() {
		return Config{}, false
	}
	return catalog[bt], true
}

// Catalog returns a copy of every bet type configuration.
func Catalog() []Config {
	out := make([]Config, 0, len(catalog)-1)
	for _, bt := range Types() {
		out = append(out, catalog[bt])
	}
	return out
}
