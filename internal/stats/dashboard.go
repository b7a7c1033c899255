package stats

import (
	"cmp"
	"math"
	"slices"
	"time"

	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
)

type Dashboard struct {
	Revenue  int64 `json:"totalRevenue"`
	Winnings int64 `json:"totalWinnings"`
	Profit   int64 `json:"profit"`
	Players  int   `json:"activePlayers"`
	Tickets  int   `json:"totalTickets"`
}

func Summary(tickets []models.Ticket) Dashboard {
	var d Dashboard
	players := map[string]struct{}{}
	for _, t := range tickets {
		d.Revenue += t.Stake
		if t.Status == models.TicketWon {
			d.Winnings += t.WinAmount
		}
		players[t.UserID] = struct{}{}
	}
	d.Profit = d.Revenue - d.Winnings
	d.Players = len(players)
	d.Tickets = len(tickets)
	return d
}

var dayNames = [...]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

type DayRevenue struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

// DailyRevenue sums stakes per calendar day over the last days days,
// oldest first, in now's location.
func DailyRevenue(tickets []models.Ticket, now time.Time, days int) []DayRevenue {
	if days <= 0 {
		return nil
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	out := make([]DayRevenue, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		key := day.Format(time.DateOnly)
		out[i] = DayRevenue{Day: dayNames[day.Weekday()], Date: key}
		index[key] = i
	}
	for _, t := range tickets {
		if i, ok := index[t.CreatedAt.In(now.Location()).Format(time.DateOnly)]; ok {
			out[i].Revenue += t.Stake
		}
	}
	return out
}

type OperatorShare struct {
	OperatorID string `json:"operatorId"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Revenue    int64  `json:"revenue"`
	Percent    int    `json:"percentage"`
}

// OperatorShares splits stake revenue between operators, largest first.
// Tickets whose draw is unknown are ignored.
func OperatorShares(tickets []models.Ticket, draws []models.Draw, cat *catalog.Catalog) []OperatorShare {
	drawOp := make(map[string]string, len(draws))
	for _, d := range draws {
		drawOp[d.ID] = d.OperatorID
	}
	revenue := map[string]int64{}
	var total int64
	for _, t := range tickets {
		op, ok := drawOp[t.DrawID]
		if !ok {
			continue
		}
		revenue[op] += t.Stake
		total += t.Stake
	}

	out := make([]OperatorShare, 0, len(revenue))
	for id, rev := range revenue {
		s := OperatorShare{OperatorID: id, Name: id, Revenue: rev}
		if op, err := cat.Get(id); err == nil {
			s.Name = op.Name
			s.Color = op.Color
		}
		if total > 0 {
			s.Percent = int(math.Round(float64(rev) * 100 / float64(total)))
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b OperatorShare) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.OperatorID, b.OperatorID)
	})
	return out
}
