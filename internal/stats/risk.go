// Package stats aggregates tickets into the figures shown on the admin
// dashboard. All functions are pure; callers supply the clock.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"lotto-happy/internal/models"
)

type Period string

const (
	PeriodHour  Period = "1h"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodAll   Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodHour, PeriodToday, PeriodWeek, PeriodAll:
		return p, nil
	case "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Since returns the start of the period ending at now; zero for PeriodAll.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodHour:
		return now.Add(-time.Hour)
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	}
	return time.Time{}
}

// FilterByPeriod keeps tickets created within p.
func FilterByPeriod(tickets []models.Ticket, p Period, now time.Time) []models.Ticket {
	since := p.Since(now)
	if since.IsZero() {
		return tickets
	}
	var out []models.Ticket
	for _, t := range tickets {
		if !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AverageMultiplier approximates the payout of a combination across bet
// types when estimating exposure.
const AverageMultiplier = 500

func LevelFor(payout int64) RiskLevel {
	switch {
	case payout > 5_000_000:
		return RiskCritical
	case payout > 2_000_000:
		return RiskHigh
	case payout > 500_000:
		return RiskMedium
	}
	return RiskLow
}

// CombinationStat is the exposure on one set of numbers in one draw.
type CombinationStat struct {
	Key             string    `json:"key"`
	DrawID          string    `json:"drawId"`
	OperatorID      string    `json:"operatorId"`
	DrawAt          time.Time `json:"drawAt"`
	Numbers         []int     `json:"numbers"`
	Count           int       `json:"count"`
	TotalAmount     int64     `json:"totalAmount"`
	PotentialPayout int64     `json:"potentialPayout"`
	Level           RiskLevel `json:"riskLevel"`
	LastPlayed      time.Time `json:"lastPlayed"`
}

// CombinationStats groups the tickets of open draws by draw and sorted
// numbers, highest potential payout first.
func CombinationStats(tickets []models.Ticket, draws []models.Draw, p Period, now time.Time) []CombinationStat {
	open := make(map[string]models.Draw, len(draws))
	for _, d := range draws {
		if d.Status.Open() {
			open[d.ID] = d
		}
	}

	groups := map[string]*CombinationStat{}
	var order []string
	for _, t := range FilterByPeriod(tickets, p, now) {
		d, ok := open[t.DrawID]
		if !ok {
			continue
		}
		nums := slices.Sorted(slices.Values(t.Picks()))
		key := t.DrawID + "|" + joinInts(nums)
		g, ok := groups[key]
		if !ok {
			g = &CombinationStat{Key: key, DrawID: d.ID, OperatorID: d.OperatorID, DrawAt: d.DrawAt, Numbers: nums}
			groups[key] = g
			order = append(order, key)
		}
		g.Count++
		g.TotalAmount += t.Stake
		if t.CreatedAt.After(g.LastPlayed) {
			g.LastPlayed = t.CreatedAt
		}
	}

	out := make([]CombinationStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.PotentialPayout = g.TotalAmount * AverageMultiplier
		g.Level = LevelFor(g.PotentialPayout)
		out = append(out, *g)
	}
	slices.SortStableFunc(out, func(a, b CombinationStat) int {
		return cmp.Compare(b.PotentialPayout, a.PotentialPayout)
	})
	return out
}

type RiskSummary struct {
	TotalCombinations  int   `json:"totalCombinations"`
	TotalAtRisk        int64 `json:"totalAtRisk"`
	Critical           int   `json:"criticalCount"`
	High               int   `json:"highCount"`
	Medium             int   `json:"mediumCount"`
	Low                int   `json:"lowCount"`
	MaxPotentialPayout int64 `json:"maxPotentialPayout"`
}

// Levels returns the per-level counts keyed by level name.
func (s RiskSummary) Levels() map[string]int {
	return map[string]int{
		string(RiskCritical): s.Critical,
		string(RiskHigh):     s.High,
		string(RiskMedium):   s.Medium,
		string(RiskLow):      s.Low,
	}
}

func Summarize(stats []CombinationStat) RiskSummary {
	s := RiskSummary{TotalCombinations: len(stats)}
	for _, c := range stats {
		s.TotalAtRisk += c.PotentialPayout
		s.MaxPotentialPayout = max(s.MaxPotentialPayout, c.PotentialPayout)
		switch c.Level {
		case RiskCritical:
			s.Critical++
		case RiskHigh:
			s.High++
		case RiskMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}
