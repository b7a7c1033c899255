package db

import (
	"encoding/json"
	"time"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
)

type drawRow struct {
	ID             string `db:"id"`
	OperatorID     string `db:"operator_id"`
	DrawAt         int64  `db:"draw_at"`
	Multipliers    string `db:"multipliers"`
	Status         string `db:"status"`
	WinningNumbers string `db:"winning_numbers"`
	CreatedAt      int64  `db:"created_at"`
	CreatedBy      string `db:"created_by"`
}

func newDrawRow(d models.Draw) (drawRow, error) {
	mult, err := json.Marshal(d.Multipliers)
	if err != nil {
		return drawRow{}, err
	}
	return drawRow{
		ID:             d.ID,
		OperatorID:     d.OperatorID,
		DrawAt:         d.DrawAt.Unix(),
		Multipliers:    string(mult),
		Status:         string(d.Status),
		WinningNumbers: encodeInts(d.WinningNumbers),
		CreatedAt:      d.CreatedAt.Unix(),
		CreatedBy:      d.CreatedBy,
	}, nil
}

func (r drawRow) model() (models.Draw, error) {
	d := models.Draw{
		ID:         r.ID,
		OperatorID: r.OperatorID,
		DrawAt:     time.Unix(r.DrawAt, 0).UTC(),
		Status:     models.DrawStatus(r.Status),
		CreatedAt:  time.Unix(r.CreatedAt, 0).UTC(),
		CreatedBy:  r.CreatedBy,
	}
	if r.Multipliers != "" && r.Multipliers != "null" {
		if err := json.Unmarshal([]byte(r.Multipliers), &d.Multipliers); err != nil {
			return models.Draw{}, err
		}
	}
	nums, err := betrules.DecodeNumbers(r.WinningNumbers)
	if err != nil {
		return models.Draw{}, err
	}
	d.WinningNumbers = nums
	return d, nil
}

type ticketRow struct {
	ID           string `db:"id"`
	UserID       string `db:"user_id"`
	DrawID       string `db:"draw_id"`
	BetType      string `db:"bet_type"`
	Numbers      string `db:"numbers"`
	BaseNumber   int    `db:"base_number"`
	Associated   string `db:"associated"`
	Position     string `db:"position"`
	Combinations string `db:"combinations"`
	BetAmount    int64  `db:"bet_amount"`
	Status       string `db:"status"`
	WinAmount    int64  `db:"win_amount"`
	CreatedAt    int64  `db:"created_at"`
}

func newTicketRow(t models.Ticket) (ticketRow, error) {
	combos := ""
	if len(t.Combinations) > 0 {
		b, err := json.Marshal(t.Combinations)
		if err != nil {
			return ticketRow{}, err
		}
		combos = string(b)
	}
	return ticketRow{
		ID:           t.ID,
		UserID:       t.UserID,
		DrawID:       t.DrawID,
		BetType:      t.BetType.String(),
		Numbers:      t.Numbers,
		BaseNumber:   t.BaseNumber,
		Associated:   encodeInts(t.AssociatedNumbers),
		Position:     string(t.Position),
		Combinations: combos,
		BetAmount:    t.Stake,
		Status:       string(t.Status),
		WinAmount:    t.WinAmount,
		CreatedAt:    t.CreatedAt.Unix(),
	}, nil
}

func (r ticketRow) model() (models.Ticket, error) {
	bt, err := betrules.ParseBetType(r.BetType)
	if err != nil {
		return models.Ticket{}, err
	}
	assoc, err := betrules.DecodeNumbers(r.Associated)
	if err != nil {
		return models.Ticket{}, err
	}
	t := models.Ticket{
		ID:                r.ID,
		UserID:            r.UserID,
		DrawID:            r.DrawID,
		BetType:           bt,
		Numbers:           r.Numbers,
		BaseNumber:        r.BaseNumber,
		AssociatedNumbers: assoc,
		Position:          betrules.Position(r.Position),
		Stake:             r.BetAmount,
		Status:            models.TicketStatus(r.Status),
		WinAmount:         r.WinAmount,
		CreatedAt:         time.Unix(r.CreatedAt, 0).UTC(),
	}
	if r.Combinations != "" {
		if err := json.Unmarshal([]byte(r.Combinations), &t.Combinations); err != nil {
			return models.Ticket{}, err
		}
	}
	return t, nil
}

func encodeInts(nums []int) string {
	return betrules.EncodeNumbers(betrules.Selection{Numbers: nums})
}
