package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lotto-happy/internal/models"
	"lotto-happy/internal/store"
)

func TestRiskAlertNotifiesOnce(t *testing.T) {
	a, fb, n := newAdminFixture(t, false)
	seedRisk(fb)
	s, err := NewScheduler(nil, a, n, "svc", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.RiskAlert(adminCtx()))
	require.NoError(t, s.RiskAlert(adminCtx()))
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "12 - 47")
}

func TestRiskAlertForgetsSettledDraws(t *testing.T) {
	a, fb, n := newAdminFixture(t, false)
	seedRisk(fb)
	s, err := NewScheduler(nil, a, n, "svc", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.RiskAlert(adminCtx()))
	assert.Len(t, s.notified, 1)

	open := fb.draws["open"]
	open.Status = models.DrawCompleted
	fb.draws["open"] = open
	require.NoError(t, s.RiskAlert(adminCtx()))
	assert.Empty(t, s.notified)
	assert.Len(t, n.msgs, 1)
}

func TestSchedulerRunsSweep(t *testing.T) {
	l := NewLocalBook(store.NewMemory(), zap.NewNop())
	a, _, _ := newAdminFixture(t, false)
	s, err := NewScheduler(l, a, nil, "svc", zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s.run("sweep_draws", s.SweepDraws)
}
