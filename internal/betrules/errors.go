package betrules

import (
	"errors"
	"fmt"
)

// Reason discriminates why a selection or stake was refused.
type Reason string

const (
	InvalidSelectionCount Reason = "InvalidSelectionCount"
	MissingBaseNumber     Reason = "MissingBaseNumber"
	MissingPosition       Reason = "MissingPosition"
	DuplicateNumber       Reason = "DuplicateNumber"
	NumberOutOfRange      Reason = "NumberOutOfRange"
	InsufficientStake     Reason = "InsufficientStake"
	InvalidStake          Reason = "InvalidStake"
	InvalidMultiplier     Reason = "InvalidMultiplier"
	UnknownBetType        Reason = "UnknownBetType"
)

// SelectionError is returned for every rule violation. Only the fields
// relevant to Reason are set.
type SelectionError struct {
	Reason    Reason
	BetType   BetType
	Input     string
	Number    int
	Count     int
	Min       int
	Max       int
	Cost      int64
	Available int64
}

func (e *SelectionError) Error() string {
	switch e.Reason {
	case InvalidSelectionCount:
		if e.Min == e.Max {
			return fmt.Sprintf("%s needs exactly %d number(s), got %d", e.BetType, e.Min, e.Count)
		}
		return fmt.Sprintf("%s needs %d to %d number(s), got %d", e.BetType, e.Min, e.Max, e.Count)
	case MissingBaseNumber:
		return fmt.Sprintf("%s needs a base number", e.BetType)
	case MissingPosition:
		return fmt.Sprintf("%s needs a position (first or last)", e.BetType)
	case DuplicateNumber:
		return fmt.Sprintf("number %d is selected more than once", e.Number)
	case NumberOutOfRange:
		return fmt.Sprintf("number %d is outside 1..%d", e.Number, e.Max)
	case InsufficientStake:
		return fmt.Sprintf("total cost %d exceeds available balance %d", e.Cost, e.Available)
	case InvalidStake:
		return fmt.Sprintf("stake must be positive, got %d", e.Cost)
	case InvalidMultiplier:
		return fmt.Sprintf("multiplier for %s must be positive, got %d", e.BetType, e.Cost)
	case UnknownBetType:
		return fmt.Sprintf("unknown bet type %q", e.Input)
	}
	return string(e.Reason)
}

// ReasonOf extracts the Reason from err, or "" if err is not a SelectionError.
func ReasonOf(err error) Reason {
	var se *SelectionError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}

// IsReason reports whether err carries reason r.
func IsReason(err error, r Reason) bool {
	return err != nil && ReasonOf(err) == r
}
