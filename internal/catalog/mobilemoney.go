package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownDialCode      = errors.New("unsupported country code")
	ErrNonDigit             = errors.New("phone number must contain only digits")
	ErrPhoneLength          = errors.New("phone number has the wrong length")
	ErrUnknownProvider      = errors.New("unknown mobile money provider")
	ErrProviderNotInCountry = errors.New("provider not available in this country")
	ErrPrefixMismatch       = errors.New("number does not belong to provider")
)

// MobileMoneyOperator is a wallet provider players can withdraw to.
type MobileMoneyOperator struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Prefixes  []string `json:"prefixes"`
	Countries []string `json:"countryCodes"`
}

func (m MobileMoneyOperator) servesCountry(dialCode string) bool {
	return slices.Contains(m.Countries, dialCode)
}

func (m MobileMoneyOperator) matches(local string) bool {
	for _, p := range m.Prefixes {
		if strings.HasPrefix(local, p) {
			return true
		}
	}
	return false
}

var mobileMoney = []MobileMoneyOperator{
	{ID: "yas", Name: "YAS", Prefixes: []string{"90", "70", "73", "93", "91"}, Countries: []string{"+228"}},
	{ID: "moov-togo", Name: "Moov Africa Togo", Prefixes: []string{"98", "78", "79", "99", "97"}, Countries: []string{"+228"}},
	{ID: "mtn-togo", Name: "MTN Mobile Money", Prefixes: []string{"92", "93", "94", "95", "96"}, Countries: []string{"+228", "+229", "+225", "+233", "+226"}},
	{ID: "moov-benin", Name: "Moov Money Bénin", Prefixes: []string{"96", "97", "61", "62", "63"}, Countries: []string{"+229"}},
	{ID: "orange", Name: "Orange Money", Prefixes: []string{"07", "08", "09", "57", "58", "59", "67", "68", "69"}, Countries: []string{"+225", "+226", "+229"}},
	{ID: "wave", Name: "Wave", Prefixes: []string{"91", "92", "93", "94", "95"}, Countries: []string{"+221", "+225", "+229"}},
	{ID: "flooz", Name: "Flooz", Prefixes: []string{"96", "97", "98", "99"}, Countries: []string{"+228"}},
}

// Local number lengths per dial code.
var phoneDigits = map[string]int{
	"+228": 8,
	"+229": 8,
	"+225": 10,
	"+233": 9,
	"+226": 8,
}

// MobileMoneyOperators returns every known provider.
func MobileMoneyOperators() []MobileMoneyOperator {
	return slices.Clone(mobileMoney)
}

// ProvidersForCountry returns the providers serving dialCode.
func ProvidersForCountry(dialCode string) []MobileMoneyOperator {
	var out []MobileMoneyOperator
	for _, m := range mobileMoney {
		if m.servesCountry(dialCode) {
			out = append(out, m)
		}
	}
	return out
}

// Provider looks up a provider by id.
func Provider(id string) (MobileMoneyOperator, error) {
	for _, m := range mobileMoney {
		if m.ID == id {
			return m, nil
		}
	}
	return MobileMoneyOperator{}, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
}

// CleanPhone strips spaces, dashes and dots.
func CleanPhone(number string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(number)
}

// ValidatePhone checks a local number (without the dial code) and returns
// it cleaned.
func ValidatePhone(number, dialCode string) (string, error) {
	want, ok := phoneDigits[dialCode]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDialCode, dialCode)
	}
	local := CleanPhone(number)
	for _, r := range local {
		if r < '0' || r > '9' {
			return "", ErrNonDigit
		}
	}
	if len(local) != want {
		return "", fmt.Errorf("%w: want %d digits for %s, got %d", ErrPhoneLength, want, dialCode, len(local))
	}
	return local, nil
}

// DetectProvider guesses the provider of a local number from its prefix.
// Prefixes overlap between providers, so the first match in catalog order wins.
func DetectProvider(number, dialCode string) (MobileMoneyOperator, bool) {
	local := CleanPhone(number)
	for _, m := range mobileMoney {
		if m.servesCountry(dialCode) && m.matches(local) {
			return m, true
		}
	}
	return MobileMoneyOperator{}, false
}

// ValidateNumberForProvider runs the phone checks and then confirms the
// provider serves the country and owns the number's prefix.
func ValidateNumberForProvider(number, dialCode, providerID string) (string, error) {
	local, err := ValidatePhone(number, dialCode)
	if err != nil {
		return "", err
	}
	p, err := Provider(providerID)
	if err != nil {
		return "", err
	}
	if !p.servesCountry(dialCode) {
		return "", fmt.Errorf("%w: %s in %s", ErrProviderNotInCountry, p.Name, dialCode)
	}
	if !p.matches(local) {
		return "", fmt.Errorf("%w: %s", ErrPrefixMismatch, p.Name)
	}
	return local, nil
}
