package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"lotto-happy/internal/models"
)

// Memory is a Repository held in process memory.
type Memory struct {
	mu       sync.RWMutex
	draws    map[string]models.Draw
	tickets  []models.Ticket
	balances map[string]models.Balance
}

func NewMemory() *Memory {
	return &Memory{
		draws:    make(map[string]models.Draw),
		balances: make(map[string]models.Balance),
	}
}

func (m *Memory) CreateDraw(_ context.Context, d models.Draw) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.draws[d.ID]; ok {
		return fmt.Errorf("draw %s already exists", d.ID)
	}
	m.draws[d.ID] = cloneDraw(d)
	return nil
}

func (m *Memory) GetDraw(_ context.Context, id string) (models.Draw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.draws[id]
	if !ok {
		return models.Draw{}, fmt.Errorf("draw %s: %w", id, ErrNotFound)
	}
	return cloneDraw(d), nil
}

// ListDraws returns matching draws ordered by scheduled time.
func (m *Memory) ListDraws(_ context.Context, f DrawFilter) ([]models.Draw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Draw
	for _, d := range m.draws {
		if f.match(d) {
			out = append(out, cloneDraw(d))
		}
	}
	slices.SortFunc(out, func(a, b models.Draw) int {
		if c := a.DrawAt.Compare(b.DrawAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *Memory) UpdateDraw(_ context.Context, d models.Draw) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.draws[d.ID]; !ok {
		return fmt.Errorf("draw %s: %w", d.ID, ErrNotFound)
	}
	m.draws[d.ID] = cloneDraw(d)
	return nil
}

func (m *Memory) DeleteDraw(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.draws[id]; !ok {
		return fmt.Errorf("draw %s: %w", id, ErrNotFound)
	}
	delete(m.draws, id)
	return nil
}

func (m *Memory) PlaceTicket(_ context.Context, t models.Ticket) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.draws[t.DrawID]; !ok {
		return 0, fmt.Errorf("draw %s: %w", t.DrawID, ErrNotFound)
	}
	bal := m.balances[t.UserID]
	if bal.Game < t.Stake {
		return bal.Game, ErrInsufficientFunds
	}
	bal.Game -= t.Stake
	m.balances[t.UserID] = bal
	m.tickets = append(m.tickets, cloneTicket(t))
	return bal.Game, nil
}

func (m *Memory) ListTicketsByDraw(_ context.Context, drawID string) ([]models.Ticket, error) {
	return m.filterTickets(func(t models.Ticket) bool { return t.DrawID == drawID }), nil
}

func (m *Memory) ListTicketsByUser(_ context.Context, userID string) ([]models.Ticket, error) {
	return m.filterTickets(func(t models.Ticket) bool { return t.UserID == userID }), nil
}

func (m *Memory) filterTickets(keep func(models.Ticket) bool) []models.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Ticket
	for _, t := range m.tickets {
		if keep(t) {
			out = append(out, cloneTicket(t))
		}
	}
	return out
}

func (m *Memory) GetBalance(_ context.Context, userID string) (models.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[userID], nil
}

// AdjustBalance adds delta to the game balance. It refuses to go negative.
func (m *Memory) AdjustBalance(_ context.Context, userID string, delta int64) (models.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal := m.balances[userID]
	if bal.Game+delta < 0 {
		return bal, ErrInsufficientFunds
	}
	bal.Game += delta
	m.balances[userID] = bal
	return bal, nil
}


// Stored records never share maps or slices with callers.

func cloneDraw(d models.Draw) models.Draw {
	d.Multipliers = maps.Clone(d.Multipliers)
	d.WinningNumbers = slices.Clone(d.WinningNumbers)
	return d
}

func cloneTicket(t models.Ticket) models.Ticket {
	t.AssociatedNumbers = slices.Clone(t.AssociatedNumbers)
	t.Combinations = slices.Clone(t.Combinations)
	return t
}
