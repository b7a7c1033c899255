package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
	"lotto-happy/internal/store"
)

// LocalBook serves draws and tickets from the local repository while the
// backend is unreachable. It never settles draws.
type LocalBook struct {
	repo store.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewLocalBook(repo store.Repository, log *zap.Logger) *LocalBook {
	return &LocalBook{repo: repo, log: log.Named("localbook"), now: time.Now}
}

// UpcomingDraws lists draws still open for betting, soonest first.
func (l *LocalBook) UpcomingDraws(ctx context.Context) ([]models.Draw, error) {
	draws, err := l.repo.ListDraws(ctx, store.DrawFilter{Status: models.DrawUpcoming})
	if err != nil {
		return nil, err
	}
	now := l.now()
	out := draws[:0]
	for _, d := range draws {
		if d.DrawAt.After(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (l *LocalBook) ListDraws(ctx context.Context, status models.DrawStatus) ([]models.Draw, error) {
	return l.repo.ListDraws(ctx, store.DrawFilter{Status: status})
}

func (l *LocalBook) GetDraw(ctx context.Context, id string) (models.Draw, error) {
	return l.repo.GetDraw(ctx, id)
}

func (l *LocalBook) CreateDraw(ctx context.Context, in backend.DrawInput, createdBy string) (models.Draw, error) {
	at, err := in.At()
	if err != nil {
		return models.Draw{}, err
	}
	d := models.Draw{
		ID:          uuid.NewString(),
		OperatorID:  in.OperatorID,
		DrawAt:      at,
		Multipliers: in.Multipliers.Merge(),
		Status:      models.DrawUpcoming,
		CreatedAt:   l.now().UTC(),
		CreatedBy:   createdBy,
	}
	if err := l.repo.CreateDraw(ctx, d); err != nil {
		return models.Draw{}, err
	}
	return d, nil
}

func (l *LocalBook) UpdateDraw(ctx context.Context, id string, in backend.DrawInput) (models.Draw, error) {
	d, err := l.repo.GetDraw(ctx, id)
	if err != nil {
		return models.Draw{}, err
	}
	at, err := in.At()
	if err != nil {
		return models.Draw{}, err
	}
	d.OperatorID = in.OperatorID
	d.DrawAt = at
	d.Multipliers = in.Multipliers.Merge()
	if err := l.repo.UpdateDraw(ctx, d); err != nil {
		return models.Draw{}, err
	}
	return d, nil
}

func (l *LocalBook) DeleteDraw(ctx context.Context, id string) error {
	return l.repo.DeleteDraw(ctx, id)
}

// PlaceTicket records a priced ticket and debits its total cost.
func (l *LocalBook) PlaceTicket(ctx context.Context, userID, drawID string, q betrules.Quote) (backend.TicketReceipt, error) {
	t := models.Ticket{
		ID:           uuid.NewString(),
		UserID:       userID,
		DrawID:       drawID,
		BetType:      q.BetType,
		Numbers:      betrules.EncodeNumbers(q.Selection),
		Position:     q.Selection.Position,
		Combinations: q.Pairs,
		Stake:        q.TotalCost,
		Status:       models.TicketPending,
		CreatedAt:    l.now().UTC(),
	}
	if q.BetType == betrules.Banka {
		t.BaseNumber = q.Selection.Base
		t.AssociatedNumbers = q.Selection.Numbers
	}
	bal, err := l.repo.PlaceTicket(ctx, t)
	if errors.Is(err, store.ErrInsufficientFunds) {
		return backend.TicketReceipt{}, betrules.CheckBalance(q.TotalCost, bal)
	}
	if err != nil {
		return backend.TicketReceipt{}, fmt.Errorf("local book: %w", err)
	}
	return backend.TicketReceipt{Ticket: t, NewBalance: bal}, nil
}

func (l *LocalBook) TicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return l.repo.ListTicketsByUser(ctx, userID)
}

func (l *LocalBook) Balance(ctx context.Context, userID string) (models.Balance, error) {
	return l.repo.GetBalance(ctx, userID)
}

// Credit adjusts a local game balance; negative amounts debit.
func (l *LocalBook) Credit(ctx context.Context, userID string, amount int64) (models.Balance, error) {
	return l.repo.AdjustBalance(ctx, userID, amount)
}

// SweepStatuses moves upcoming draws whose time has passed to pending and
// returns how many changed.
func (l *LocalBook) SweepStatuses(ctx context.Context) (int, error) {
	draws, err := l.repo.ListDraws(ctx, store.DrawFilter{Status: models.DrawUpcoming})
	if err != nil {
		return 0, err
	}
	now := l.now()
	changed := 0
	for _, d := range draws {
		if now.Before(d.DrawAt) {
			continue
		}
		d.Status = models.DrawPending
		if err := l.repo.UpdateDraw(ctx, d); err != nil {
			return changed, err
		}
		changed++
		l.log.Info("draw closed for betting", zap.String("draw_id", d.ID))
	}
	return changed, nil
}

// Book returns the draws and their tickets, optionally only open draws.
func (l *LocalBook) Book(ctx context.Context, openOnly bool) ([]models.Draw, []models.Ticket, error) {
	draws, err := l.repo.ListDraws(ctx, store.DrawFilter{})
	if err != nil {
		return nil, nil, err
	}
	var (
		kept    []models.Draw
		tickets []models.Ticket
	)
	for _, d := range draws {
		if openOnly && !d.Status.Open() {
			continue
		}
		ts, err := l.repo.ListTicketsByDraw(ctx, d.ID)
		if err != nil {
			return nil, nil, err
		}
		kept = append(kept, d)
		tickets = append(tickets, ts...)
	}
	return kept, tickets, nil
}
