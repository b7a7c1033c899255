package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDrawAcceptsBets(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	d := Draw{Status: DrawUpcoming, DrawAt: now.Add(time.Hour)}
	assert.True(t, d.AcceptsBets(now))
	assert.False(t, d.AcceptsBets(now.Add(2*time.Hour)))

	d.Status = DrawPending
	assert.False(t, d.AcceptsBets(now))
	assert.True(t, d.Status.Open())
	assert.False(t, DrawCompleted.Open())
}

func TestTicketPicks(t *testing.T) {
	assert.Equal(t, []int{4, 5, 6}, Ticket{Numbers: "4,5,6"}.Picks())
	assert.Nil(t, Ticket{Numbers: "4,?"}.Picks())
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleFinance.IsAdmin())
	assert.False(t, RolePlayer.IsAdmin())
	assert.False(t, RoleReseller.IsAdmin())
}
