package backend

import (
	"fmt"
	"strings"
	"time"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// DrawInput is the create/update payload. Date and Time are UTC.
type DrawInput struct {
	OperatorID  string               `json:"operatorId"`
	Date        string               `json:"date"`
	Time        string               `json:"time"`
	Multipliers betrules.Multipliers `json:"multipliers"`
}

// NewDrawInput splits at into the backend's date and time fields.
func NewDrawInput(operatorID string, at time.Time, m betrules.Multipliers) DrawInput {
	at = at.UTC()
	return DrawInput{
		OperatorID:  operatorID,
		Date:        at.Format(dateLayout),
		Time:        at.Format(timeLayout),
		Multipliers: m,
	}
}

// At returns the draw instant the input names.
func (in DrawInput) At() (time.Time, error) {
	return drawInstant(in.Date, in.Time)
}

// drawWire is a draw as the backend sends it.
type drawWire struct {
	ID             string               `json:"id"`
	OperatorID     string               `json:"operatorId"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	Status         models.DrawStatus    `json:"status"`
	Multipliers    betrules.Multipliers `json:"multipliers"`
	WinningNumbers []int                `json:"winningNumbers"`
	CreatedAt      string               `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

func (w drawWire) model() (models.Draw, error) {
	at, err := drawInstant(w.Date, w.Time)
	if err != nil {
		return models.Draw{}, fmt.Errorf("decode draw %s: %w", w.ID, err)
	}
	return models.Draw{
		ID:             w.ID,
		OperatorID:     w.OperatorID,
		DrawAt:         at,
		Multipliers:    w.Multipliers,
		Status:         w.Status,
		WinningNumbers: w.WinningNumbers,
		CreatedAt:      parseTimestamp(w.CreatedAt),
		CreatedBy:      w.CreatedBy,
	}, nil
}

func drawModels(in []drawWire) ([]models.Draw, error) {
	out := make([]models.Draw, 0, len(in))
	for _, w := range in {
		d, err := w.model()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// drawInstant reads "YYYY-MM-DD" and "HH:MM" (seconds optional) as UTC.
func drawInstant(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("draw date and time are required, got %q %q", date, clock)
	}
	if strings.Count(clock, ":") == 2 {
		clock = clock[:strings.LastIndex(clock, ":")]
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"}

// parseTimestamp accepts the backend's ISO timestamps, with or without a
// zone. Unknown formats yield the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
