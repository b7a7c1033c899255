package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
	"lotto-happy/internal/store"
)

func TestSweepStatuses(t *testing.T) {
	l := NewLocalBook(store.NewMemory(), zap.NewNop())
	l.now = fixedClock(clock)
	ctx := context.Background()

	past, err := l.CreateDraw(ctx, backend.NewDrawInput("togo-kadoo", clock.Add(-time.Minute), nil), "admin")
	require.NoError(t, err)
	future, err := l.CreateDraw(ctx, backend.NewDrawInput("togo-kadoo", clock.Add(time.Hour), nil), "admin")
	require.NoError(t, err)

	n, err := l.SweepStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := l.GetDraw(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawPending, got.Status)
	got, err = l.GetDraw(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawUpcoming, got.Status)

	n, err = l.SweepStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	upcoming, err := l.UpcomingDraws(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future.ID, upcoming[0].ID)
}

func TestLocalBookPlaceTicket(t *testing.T) {
	l := NewLocalBook(store.NewMemory(), zap.NewNop())
	l.now = fixedClock(clock)
	ctx := context.Background()

	d, err := l.CreateDraw(ctx, backend.NewDrawInput("togo-kadoo", clock.Add(time.Hour), nil), "admin")
	require.NoError(t, err)
	_, err = l.Credit(ctx, "u1", 500)
	require.NoError(t, err)

	q, err := betrules.Price(betrules.Banka, betrules.Selection{Base: 7, Numbers: []int{14, 21}}, 300, d.Multipliers, 90)
	require.NoError(t, err)
	r, err := l.PlaceTicket(ctx, "u1", d.ID, q)
	require.NoError(t, err)
	assert.Equal(t, int64(200), r.NewBalance)
	assert.Equal(t, 7, r.Ticket.BaseNumber)
	assert.Equal(t, "7,14,21", r.Ticket.Numbers)

	_, err = l.PlaceTicket(ctx, "u1", d.ID, q)
	assert.True(t, betrules.IsReason(err, betrules.InsufficientStake))

	draws, tickets, err := l.Book(ctx, true)
	require.NoError(t, err)
	assert.Len(t, draws, 1)
	assert.Len(t, tickets, 1)
}
