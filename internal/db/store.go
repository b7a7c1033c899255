package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"lotto-happy/internal/models"
	"lotto-happy/internal/store"
)

const (
	drawColumns   = "id, operator_id, draw_at, multipliers, status, winning_numbers, created_at, created_by"
	ticketColumns = "id, user_id, draw_id, bet_type, numbers, base_number, associated, position, combinations, bet_amount, status, win_amount, created_at"
)

// SQLStore is a store.Repository backed by SQLite or Turso.
type SQLStore struct {
	db *sqlx.DB
}

var _ store.Repository = (*SQLStore)(nil)

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateDraw(ctx context.Context, d models.Draw) error {
	r, err := newDrawRow(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO draws ("+drawColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.OperatorID, r.DrawAt, r.Multipliers, r.Status, r.WinningNumbers, r.CreatedAt, r.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

func (s *SQLStore) GetDraw(ctx context.Context, id string) (models.Draw, error) {
	var r drawRow
	err := s.db.GetContext(ctx, &r, "SELECT "+drawColumns+" FROM draws WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Draw{}, fmt.Errorf("draw %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.Draw{}, fmt.Errorf("get draw: %w", err)
	}
	return r.model()
}

func (s *SQLStore) ListDraws(ctx context.Context, f store.DrawFilter) ([]models.Draw, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.OperatorID != "" {
		where = append(where, "operator_id = ?")
		args = append(args, f.OperatorID)
	}
	query := "SELECT " + drawColumns + " FROM draws"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY draw_at, id"

	var rows []drawRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	out := make([]models.Draw, 0, len(rows))
	for _, r := range rows {
		d, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("decode draw %s: %w", r.ID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *SQLStore) UpdateDraw(ctx context.Context, d models.Draw) error {
	r, err := newDrawRow(d)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE draws SET operator_id = ?, draw_at = ?, multipliers = ?, status = ?, winning_numbers = ? WHERE id = ?",
		r.OperatorID, r.DrawAt, r.Multipliers, r.Status, r.WinningNumbers, r.ID)
	if err != nil {
		return fmt.Errorf("update draw: %w", err)
	}
	return expectOne(res, "draw "+d.ID)
}

func (s *SQLStore) DeleteDraw(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM draws WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete draw: %w", err)
	}
	return expectOne(res, "draw "+id)
}

// PlaceTicket debits the stake and inserts the ticket in one transaction.
func (s *SQLStore) PlaceTicket(ctx context.Context, t models.Ticket) (int64, error) {
	r, err := newTicketRow(t)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, "SELECT COUNT(1) FROM draws WHERE id = ?", t.DrawID); err != nil {
		return 0, fmt.Errorf("check draw: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("draw %s: %w", t.DrawID, store.ErrNotFound)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE balances SET game = game - ? WHERE user_id = ? AND game >= ?",
		t.Stake, t.UserID, t.Stake)
	if err != nil {
		return 0, fmt.Errorf("debit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var game int64
		err := tx.GetContext(ctx, &game, "SELECT game FROM balances WHERE user_id = ?", t.UserID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("read balance: %w", err)
		}
		return game, store.ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tickets ("+ticketColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.UserID, r.DrawID, r.BetType, r.Numbers, r.BaseNumber, r.Associated, r.Position,
		r.Combinations, r.BetAmount, r.Status, r.WinAmount, r.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert ticket: %w", err)
	}

	var game int64
	if err := tx.GetContext(ctx, &game, "SELECT game FROM balances WHERE user_id = ?", t.UserID); err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return game, nil
}

func (s *SQLStore) ListTicketsByDraw(ctx context.Context, drawID string) ([]models.Ticket, error) {
	return s.listTickets(ctx, "draw_id = ?", drawID)
}

func (s *SQLStore) ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.listTickets(ctx, "user_id = ?", userID)
}

func (s *SQLStore) listTickets(ctx context.Context, cond string, arg any) ([]models.Ticket, error) {
	var rows []ticketRow
	query := "SELECT " + ticketColumns + " FROM tickets WHERE " + cond + " ORDER BY created_at"
	if err := s.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	out := make([]models.Ticket, 0, len(rows))
	for _, r := range rows {
		t, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("decode ticket %s: %w", r.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *SQLStore) GetBalance(ctx context.Context, userID string) (models.Balance, error) {
	var b models.Balance
	err := s.db.GetContext(ctx, &b, "SELECT game, winnings, tokens FROM balances WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Balance{}, nil
	}
	if err != nil {
		return models.Balance{}, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

func (s *SQLStore) AdjustBalance(ctx context.Context, userID string, delta int64) (models.Balance, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Balance{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT INTO balances (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING", userID); err != nil {
		return models.Balance{}, fmt.Errorf("ensure balance: %w", err)
	}
	res, err := tx.ExecContext(ctx, "UPDATE balances SET game = game + ? WHERE user_id = ? AND game + ? >= 0", delta, userID, delta)
	if err != nil {
		return models.Balance{}, fmt.Errorf("adjust balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Balance{}, store.ErrInsufficientFunds
	}

	var b models.Balance
	if err := tx.GetContext(ctx, &b, "SELECT game, winnings, tokens FROM balances WHERE user_id = ?", userID); err != nil {
		return models.Balance{}, fmt.Errorf("read balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Balance{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}
