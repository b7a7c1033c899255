package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
)

var now = time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC) // a Thursday

func ticket(id, user, draw, numbers string, stake int64, age time.Duration) models.Ticket {
	return models.Ticket{
		ID: id, UserID: user, DrawID: draw, BetType: betrules.NAP2,
		Numbers: numbers, Stake: stake, Status: models.TicketPending,
		CreatedAt: now.Add(-age),
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)
	p, err = ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)
	_, err = ParsePeriod("month")
	assert.Error(t, err)
}

func TestFilterByPeriod(t *testing.T) {
	tickets := []models.Ticket{
		ticket("a", "u", "d", "1,2", 100, 30*time.Minute),
		ticket("b", "u", "d", "1,2", 100, 3*time.Hour),
		ticket("c", "u", "d", "1,2", 100, 20*time.Hour),
		ticket("d", "u", "d", "1,2", 100, 10*24*time.Hour),
	}
	assert.Len(t, FilterByPeriod(tickets, PeriodHour, now), 1)
	assert.Len(t, FilterByPeriod(tickets, PeriodToday, now), 2)
	assert.Len(t, FilterByPeriod(tickets, PeriodWeek, now), 3)
	assert.Len(t, FilterByPeriod(tickets, PeriodAll, now), 4)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, LevelFor(500_000))
	assert.Equal(t, RiskMedium, LevelFor(500_001))
	assert.Equal(t, RiskHigh, LevelFor(2_000_001))
	assert.Equal(t, RiskCritical, LevelFor(5_000_001))
	assert.Equal(t, RiskHigh, LevelFor(5_000_000))
}

func TestCombinationStats(t *testing.T) {
	draws := []models.Draw{
		{ID: "open", OperatorID: "togo-kadoo", Status: models.DrawUpcoming},
		{ID: "pending", OperatorID: "benin-lotto", Status: models.DrawPending},
		{ID: "done", OperatorID: "togo-kadoo", Status: models.DrawCompleted},
	}
	tickets := []models.Ticket{
		ticket("1", "u1", "open", "12,47", 5000, 2*time.Hour),
		ticket("2", "u2", "open", "47,12", 6000, time.Minute),
		ticket("3", "u3", "open", "5,6", 100, time.Minute),
		ticket("4", "u1", "pending", "12,47", 1500, time.Minute),
		ticket("5", "u1", "done", "12,47", 90000, time.Minute),
		ticket("6", "u1", "unknown", "12,47", 90000, time.Minute),
	}

	got := CombinationStats(tickets, draws, PeriodAll, now)
	require.Len(t, got, 3)

	top := got[0]
	assert.Equal(t, "open", top.DrawID)
	assert.Equal(t, []int{12, 47}, top.Numbers)
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, int64(11000), top.TotalAmount)
	assert.Equal(t, int64(5_500_000), top.PotentialPayout)
	assert.Equal(t, RiskCritical, top.Level)
	assert.Equal(t, now.Add(-time.Minute), top.LastPlayed)

	assert.Equal(t, "pending", got[1].DrawID)
	assert.Equal(t, RiskMedium, got[1].Level)
	assert.Equal(t, RiskLow, got[2].Level)

	sum := Summarize(got)
	assert.Equal(t, 3, sum.TotalCombinations)
	assert.Equal(t, int64(5_500_000+750_000+50_000), sum.TotalAtRisk)
	assert.Equal(t, 1, sum.Critical)
	assert.Equal(t, 1, sum.Medium)
	assert.Equal(t, 1, sum.Low)
	assert.Equal(t, int64(5_500_000), sum.MaxPotentialPayout)
	assert.Equal(t, 1, sum.Levels()["critical"])

	recent := CombinationStats(tickets, draws, PeriodHour, now)
	require.Len(t, recent, 3)
	assert.Equal(t, 1, recent[0].Count, "ticket placed an hour ago falls out of the window")
}

func TestSummary(t *testing.T) {
	won := ticket("w", "u2", "d", "1", 100, 0)
	won.Status = models.TicketWon
	won.WinAmount = 1000
	d := Summary([]models.Ticket{ticket("a", "u1", "d", "1,2", 500, 0), won})
	assert.Equal(t, Dashboard{Revenue: 600, Winnings: 1000, Profit: -400, Players: 2, Tickets: 2}, d)
}

func TestDailyRevenue(t *testing.T) {
	tickets := []models.Ticket{
		ticket("a", "u", "d", "1", 100, time.Hour),
		ticket("b", "u", "d", "1", 200, 24*time.Hour),
		ticket("c", "u", "d", "1", 400, 8*24*time.Hour),
	}
	days := DailyRevenue(tickets, now, 7)
	require.Len(t, days, 7)
	assert.Equal(t, "Jeu", days[6].Day)
	assert.Equal(t, "2026-03-12", days[6].Date)
	assert.Equal(t, int64(100), days[6].Revenue)
	assert.Equal(t, "Mer", days[5].Day)
	assert.Equal(t, int64(200), days[5].Revenue)
	assert.Equal(t, "Ven", days[0].Day)

	var total int64
	for _, d := range days {
		total += d.Revenue
	}
	assert.Equal(t, int64(300), total)
}

func TestOperatorShares(t *testing.T) {
	draws := []models.Draw{{ID: "d1", OperatorID: "togo-kadoo"}, {ID: "d2", OperatorID: "benin-lotto"}}
	tickets := []models.Ticket{
		ticket("a", "u", "d1", "1", 200, 0),
		ticket("b", "u", "d2", "1", 100, 0),
		ticket("c", "u", "zz", "1", 999, 0),
	}
	shares := OperatorShares(tickets, draws, catalog.Default())
	require.Len(t, shares, 2)
	assert.Equal(t, "Lotto Kadoo", shares[0].Name)
	assert.Equal(t, 67, shares[0].Percent)
	assert.Equal(t, 33, shares[1].Percent)
}
