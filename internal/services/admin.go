package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
	"lotto-happy/internal/stats"
)

type AdminBackend interface {
	ListDraws(ctx context.Context, status models.DrawStatus) ([]models.Draw, error)
	GetDraw(ctx context.Context, id string) (models.Draw, error)
	CreateDraw(ctx context.Context, in backend.DrawInput) (models.Draw, error)
	UpdateDraw(ctx context.Context, id string, in backend.DrawInput) (models.Draw, error)
	DeleteDraw(ctx context.Context, id string) error
	PublishResults(ctx context.Context, id string, winning []int) (backend.ResultsResponse, error)
	TicketsByDraw(ctx context.Context, drawID string) ([]models.Ticket, error)
	ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id, notes string) (models.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id, reason string) (backend.RejectResult, error)
	SetUserStatus(ctx context.Context, userID string, active bool) (models.User, error)
}

type Admin struct {
	backend  AdminBackend
	local    *LocalBook
	catalog  *catalog.Catalog
	notifier Notifier
	cache    Cache
	log      *zap.Logger
	now      func() time.Time
}

type AdminOption func(*Admin)

// WithDrawCache makes draw changes evict the cached upcoming draws.
func WithDrawCache(c Cache) AdminOption {
	return func(a *Admin) { a.cache = c }
}

func NewAdmin(be AdminBackend, local *LocalBook, cat *catalog.Catalog, n Notifier, log *zap.Logger, opts ...AdminOption) *Admin {
	if n == nil {
		n = NopNotifier{}
	}
	a := &Admin{backend: be, local: local, catalog: cat, notifier: n, log: log.Named("admin"), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Admin) evictDraws(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, upcomingDrawsKey); err != nil {
		a.log.Warn("failed to evict cached draws", zap.Error(err))
	}
}

func (a *Admin) validateDraw(in backend.DrawInput) error {
	if _, err := a.catalog.Get(in.OperatorID); err != nil {
		return err
	}
	at, err := in.At()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDrawTime, err)
	}
	if !at.After(a.now()) {
		return ErrDrawInPast
	}
	return in.Multipliers.Validate()
}

func (a *Admin) CreateDraw(ctx context.Context, in backend.DrawInput) (models.Draw, error) {
	if err := a.validateDraw(in); err != nil {
		return models.Draw{}, err
	}
	d, err := a.backend.CreateDraw(ctx, in)
	if backend.IsNetworkError(err) && a.local != nil {
		sess, _ := session.From(ctx)
		d, err = a.local.CreateDraw(ctx, in, sess.UserID)
	}
	if err != nil {
		return models.Draw{}, err
	}
	a.evictDraws(ctx)
	a.log.Info("draw created", zap.String("draw_id", d.ID), zap.String("operator_id", d.OperatorID), zap.Time("draw_at", d.DrawAt))
	return d, nil
}

// UpdateDraw reschedules an open draw or changes its multipliers.
func (a *Admin) UpdateDraw(ctx context.Context, id string, in backend.DrawInput) (models.Draw, error) {
	if err := a.validateDraw(in); err != nil {
		return models.Draw{}, err
	}
	current, err := a.draw(ctx, id)
	if err != nil {
		return models.Draw{}, err
	}
	if current.Status == models.DrawCompleted {
		return models.Draw{}, fmt.Errorf("%w: %s", ErrDrawCompleted, id)
	}
	d, err := a.backend.UpdateDraw(ctx, id, in)
	if backend.IsNetworkError(err) && a.local != nil {
		d, err = a.local.UpdateDraw(ctx, id, in)
	}
	if err != nil {
		return models.Draw{}, err
	}
	a.evictDraws(ctx)
	return d, nil
}

func (a *Admin) DeleteDraw(ctx context.Context, id string) error {
	err := a.backend.DeleteDraw(ctx, id)
	if backend.IsNetworkError(err) && a.local != nil {
		err = a.local.DeleteDraw(ctx, id)
	}
	if err != nil {
		return err
	}
	a.evictDraws(ctx)
	return nil
}

func (a *Admin) Draws(ctx context.Context, status models.DrawStatus) ([]models.Draw, error) {
	draws, err := a.backend.ListDraws(ctx, status)
	if backend.IsNetworkError(err) && a.local != nil {
		return a.local.ListDraws(ctx, status)
	}
	return draws, err
}

// ValidateWinningNumbers requires exactly the operator's drawn count of
// distinct numbers inside its pool.
func ValidateWinningNumbers(nums []int, op catalog.Operator) error {
	if len(nums) != op.NumbersDrawn {
		return fmt.Errorf("%w: need %d numbers, got %d", ErrInvalidWinningNumbers, op.NumbersDrawn, len(nums))
	}
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if n < 1 || n > op.NumbersPool {
			return fmt.Errorf("%w: %d outside 1..%d", ErrInvalidWinningNumbers, n, op.NumbersPool)
		}
		if seen[n] {
			return fmt.Errorf("%w: %d repeated", ErrInvalidWinningNumbers, n)
		}
		seen[n] = true
	}
	return nil
}

// PublishResults sends the winning numbers to the backend, which settles
// the draw. There is no local fallback: settlement happens only there.
func (a *Admin) PublishResults(ctx context.Context, id string, winning []int) (backend.ResultsResponse, error) {
	d, err := a.backend.GetDraw(ctx, id)
	if err != nil {
		return backend.ResultsResponse{}, err
	}
	if d.Status == models.DrawCompleted {
		return backend.ResultsResponse{}, fmt.Errorf("%w: %s", ErrDrawCompleted, id)
	}
	op, err := a.catalog.Get(d.OperatorID)
	if err != nil {
		return backend.ResultsResponse{}, err
	}
	if err := ValidateWinningNumbers(winning, op); err != nil {
		return backend.ResultsResponse{}, err
	}
	res, err := a.backend.PublishResults(ctx, id, winning)
	if err != nil {
		return backend.ResultsResponse{}, err
	}
	s := res.Stats
	a.log.Info("results published",
		zap.String("draw_id", id),
		zap.Ints("winning_numbers", winning),
		zap.Int("winners", s.TotalWinners),
		zap.Int64("profit", s.Profit))
	a.notifier.Notify(ctx, fmt.Sprintf("🎉 Résultats %s (%s): %s\nTickets: %d, gagnants: %d, gains: %d, bénéfice: %d",
		op.Name, d.DrawAt.Format("2006-01-02 15:04"), joinNumbers(winning),
		s.TotalTickets, s.TotalWinners, s.TotalWinnings, s.Profit))
	return res, nil
}

func (a *Admin) Withdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error) {
	return a.backend.ListWithdrawals(ctx, status)
}

func (a *Admin) ApproveWithdrawal(ctx context.Context, id, notes string) (models.Withdrawal, error) {
	return a.backend.ApproveWithdrawal(ctx, id, strings.TrimSpace(notes))
}

// RejectWithdrawal refunds the player; the reason is shown to them.
func (a *Admin) RejectWithdrawal(ctx context.Context, id, reason string) (backend.RejectResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return backend.RejectResult{}, ErrReasonRequired
	}
	return a.backend.RejectWithdrawal(ctx, id, reason)
}

func (a *Admin) SetUserStatus(ctx context.Context, userID string, active bool) (models.User, error) {
	return a.backend.SetUserStatus(ctx, userID, active)
}

// AdjustLocalBalance credits or debits a game balance in the local book.
func (a *Admin) AdjustLocalBalance(ctx context.Context, userID string, amount int64) (models.Balance, error) {
	if a.local == nil {
		return models.Balance{}, ErrFallbackDisabled
	}
	if amount == 0 {
		return models.Balance{}, ErrInvalidAmount
	}
	return a.local.Credit(ctx, userID, amount)
}

type RiskReport struct {
	Period       stats.Period            `json:"period"`
	Combinations []stats.CombinationStat `json:"combinations"`
	Summary      stats.RiskSummary       `json:"summary"`
}

// RiskReport aggregates exposure on open draws. limit <= 0 keeps all
// combinations; the summary always covers all of them.
func (a *Admin) RiskReport(ctx context.Context, period stats.Period, limit int) (RiskReport, error) {
	draws, tickets, err := a.book(ctx, true)
	if err != nil {
		return RiskReport{}, err
	}
	combos := stats.CombinationStats(tickets, draws, period, a.now())
	rep := RiskReport{Period: period, Summary: stats.Summarize(combos), Combinations: combos}
	if limit > 0 && len(combos) > limit {
		rep.Combinations = combos[:limit]
	}
	return rep, nil
}

type DashboardReport struct {
	stats.Dashboard
	Daily     []stats.DayRevenue    `json:"last7Days"`
	Operators []stats.OperatorShare `json:"operators"`
}

func (a *Admin) Dashboard(ctx context.Context, period stats.Period) (DashboardReport, error) {
	draws, tickets, err := a.book(ctx, false)
	if err != nil {
		return DashboardReport{}, err
	}
	now := a.now()
	inPeriod := stats.FilterByPeriod(tickets, period, now)
	return DashboardReport{
		Dashboard: stats.Summary(inPeriod),
		Daily:     stats.DailyRevenue(tickets, now, 7),
		Operators: stats.OperatorShares(inPeriod, draws, a.catalog),
	}, nil
}

// book collects draws and their tickets from the backend, or from the
// local book when the backend is unreachable.
func (a *Admin) book(ctx context.Context, openOnly bool) ([]models.Draw, []models.Ticket, error) {
	var statuses []models.DrawStatus
	if openOnly {
		statuses = []models.DrawStatus{models.DrawUpcoming, models.DrawPending}
	} else {
		statuses = []models.DrawStatus{""}
	}
	var draws []models.Draw
	for _, st := range statuses {
		ds, err := a.backend.ListDraws(ctx, st)
		if backend.IsNetworkError(err) && a.local != nil {
			return a.local.Book(ctx, openOnly)
		}
		if err != nil {
			return nil, nil, err
		}
		draws = append(draws, ds...)
	}
	var tickets []models.Ticket
	for _, d := range draws {
		ts, err := a.backend.TicketsByDraw(ctx, d.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("tickets of draw %s: %w", d.ID, err)
		}
		tickets = append(tickets, ts...)
	}
	return draws, tickets, nil
}

func (a *Admin) draw(ctx context.Context, id string) (models.Draw, error) {
	d, err := a.backend.GetDraw(ctx, id)
	if backend.IsNetworkError(err) && a.local != nil {
		return a.local.GetDraw(ctx, id)
	}
	return d, err
}

func joinNumbers(nums []int) string {
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " - ")
}
