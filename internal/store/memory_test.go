package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
)

func TestMemoryDraws(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "b", OperatorID: "togo-kadoo", DrawAt: base.Add(2 * time.Hour), Status: models.DrawUpcoming}))
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "a", OperatorID: "benin-lotto", DrawAt: base.Add(time.Hour), Status: models.DrawUpcoming}))
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "c", OperatorID: "togo-kadoo", DrawAt: base, Status: models.DrawCompleted}))
	assert.Error(t, m.CreateDraw(ctx, models.Draw{ID: "a"}))

	all, err := m.ListDraws(ctx, DrawFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	upcoming, _ := m.ListDraws(ctx, DrawFilter{Status: models.DrawUpcoming, OperatorID: "togo-kadoo"})
	require.Len(t, upcoming, 1)
	assert.Equal(t, "b", upcoming[0].ID)

	d, err := m.GetDraw(ctx, "a")
	require.NoError(t, err)
	d.Status = models.DrawPending
	require.NoError(t, m.UpdateDraw(ctx, d))
	d, _ = m.GetDraw(ctx, "a")
	assert.Equal(t, models.DrawPending, d.Status)

	require.NoError(t, m.DeleteDraw(ctx, "a"))
	_, err = m.GetDraw(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteDraw(ctx, "a"), ErrNotFound)
	assert.ErrorIs(t, m.UpdateDraw(ctx, models.Draw{ID: "zz"}), ErrNotFound)
}

func TestMemoryDrawMultipliersAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	mult := betrules.Multipliers{betrules.NAP2: 240}
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "d", Multipliers: mult}))
	mult[betrules.NAP2] = 1

	d, _ := m.GetDraw(ctx, "d")
	assert.Equal(t, int64(240), d.Multipliers[betrules.NAP2])

	d.Multipliers[betrules.NAP2] = 2
	listed, err := m.ListDraws(ctx, DrawFilter{})
	require.NoError(t, err)
	listed[0].Multipliers[betrules.NAP2] = 3

	d, _ = m.GetDraw(ctx, "d")
	assert.Equal(t, int64(240), d.Multipliers[betrules.NAP2])
}

func TestMemoryTicketsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "d1"}))
	_, err := m.AdjustBalance(ctx, "u1", 1000)
	require.NoError(t, err)

	ticket := models.Ticket{
		ID: "t1", UserID: "u1", DrawID: "d1", Stake: 300, BetType: betrules.Banka,
		BaseNumber: 4, AssociatedNumbers: []int{5, 6}, Combinations: [][2]int{{5, 6}},
	}
	_, err = m.PlaceTicket(ctx, ticket)
	require.NoError(t, err)
	ticket.AssociatedNumbers[0] = 77
	ticket.Combinations[0] = [2]int{1, 1}

	got, err := m.ListTicketsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{5, 6}, got[0].AssociatedNumbers)
	assert.Equal(t, [][2]int{{5, 6}}, got[0].Combinations)

	got[0].AssociatedNumbers[1] = 88
	again, err := m.ListTicketsByDraw(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, again[0].AssociatedNumbers)
}

func TestMemoryPlaceTicket(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "d1"}))
	_, err := m.AdjustBalance(ctx, "u1", 1000)
	require.NoError(t, err)

	bal, err := m.PlaceTicket(ctx, models.Ticket{ID: "t1", UserID: "u1", DrawID: "d1", Stake: 600})
	require.NoError(t, err)
	assert.Equal(t, int64(400), bal)

	_, err = m.PlaceTicket(ctx, models.Ticket{ID: "t2", UserID: "u1", DrawID: "d1", Stake: 500})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = m.PlaceTicket(ctx, models.Ticket{ID: "t3", UserID: "u1", DrawID: "missing", Stake: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	byDraw, _ := m.ListTicketsByDraw(ctx, "d1")
	assert.Len(t, byDraw, 1)
	byUser, _ := m.ListTicketsByUser(ctx, "u1")
	assert.Len(t, byUser, 1)

	b, _ := m.GetBalance(ctx, "u1")
	assert.Equal(t, int64(400), b.Game)

	_, err = m.AdjustBalance(ctx, "u1", -401)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestMemoryConcurrentTickets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateDraw(ctx, models.Draw{ID: "d1"}))
	_, _ = m.AdjustBalance(ctx, "u1", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.PlaceTicket(ctx, models.Ticket{UserID: "u1", DrawID: "d1", Stake: 100})
		}()
	}
	wg.Wait()

	tickets, _ := m.ListTicketsByUser(ctx, "u1")
	assert.Len(t, tickets, 10)
	b, _ := m.GetBalance(ctx, "u1")
	assert.Zero(t, b.Game)
}
