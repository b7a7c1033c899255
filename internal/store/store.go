// Package store defines the local book used when the backend is out of
// reach, and an in-memory implementation of it.
package store

import (
	"context"
	"errors"

	"lotto-happy/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type DrawFilter struct {
	Status     models.DrawStatus
	OperatorID string
}

func (f DrawFilter) match(d models.Draw) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	return f.OperatorID == "" || d.OperatorID == f.OperatorID
}

// Repository is the local book. PlaceTicket debits the ticket stake from
// the owner's game balance and records the ticket atomically.
type Repository interface {
	CreateDraw(ctx context.Context, d models.Draw) error
	GetDraw(ctx context.Context, id string) (models.Draw, error)
	ListDraws(ctx context.Context, f DrawFilter) ([]models.Draw, error)
	UpdateDraw(ctx context.Context, d models.Draw) error
	DeleteDraw(ctx context.Context, id string) error

	PlaceTicket(ctx context.Context, t models.Ticket) (newBalance int64, err error)
	ListTicketsByDraw(ctx context.Context, drawID string) ([]models.Ticket, error)
	ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)

	GetBalance(ctx context.Context, userID string) (models.Balance, error)
	AdjustBalance(ctx context.Context, userID string, delta int64) (models.Balance, error)
}
