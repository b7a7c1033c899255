package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/metrics"
	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
)

// BettingBackend is the part of the backend the betting flow needs.
type BettingBackend interface {
	ListDraws(ctx context.Context, status models.DrawStatus) ([]models.Draw, error)
	GetDraw(ctx context.Context, id string) (models.Draw, error)
	SubmitTicket(ctx context.Context, in backend.TicketSubmission) (backend.TicketReceipt, error)
	MyTickets(ctx context.Context) ([]models.Ticket, error)
	Me(ctx context.Context) (models.User, error)
}

type Betting struct {
	backend BettingBackend
	local   *LocalBook
	catalog *catalog.Catalog
	cache   Cache
	log     *zap.Logger
	now     func() time.Time
}

type BettingOption func(*Betting)

// WithLocalBook enables the fallback used when the backend is unreachable.
func WithLocalBook(l *LocalBook) BettingOption {
	return func(b *Betting) { b.local = l }
}

func WithCache(c Cache) BettingOption {
	return func(b *Betting) { b.cache = c }
}

func NewBetting(be BettingBackend, cat *catalog.Catalog, log *zap.Logger, opts ...BettingOption) *Betting {
	b := &Betting{backend: be, catalog: cat, log: log.Named("betting"), now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

type BetRequest struct {
	DrawID    string
	BetType   betrules.BetType
	Selection betrules.Selection
	// Stake is per combination.
	Stake int64
}

type QuoteResult struct {
	betrules.Quote
	DrawID     string `json:"drawId"`
	OperatorID string `json:"operatorId"`
}

type BetReceipt struct {
	Ticket     models.Ticket `json:"ticket"`
	NewBalance int64         `json:"newBalance"`
	Book       string        `json:"book"`
}

// Quote validates and prices a bet against its draw and operator limits.
func (b *Betting) Quote(ctx context.Context, req BetRequest) (QuoteResult, error) {
	draw, err := b.draw(ctx, req.DrawID)
	if err != nil {
		return QuoteResult{}, err
	}
	if !draw.AcceptsBets(b.now()) {
		metrics.RecordRejection("DrawClosed")
		return QuoteResult{}, fmt.Errorf("%w: %s", ErrDrawClosed, draw.ID)
	}
	op, err := b.catalog.Get(draw.OperatorID)
	if err != nil {
		return QuoteResult{}, err
	}
	q, err := betrules.Price(req.BetType, req.Selection, req.Stake, draw.Multipliers, op.NumbersPool)
	if err != nil {
		metrics.RecordRejection(string(betrules.ReasonOf(err)))
		return QuoteResult{}, err
	}
	if err := op.CheckStake(q.TotalCost); err != nil {
		metrics.RecordRejection("StakeLimit")
		return QuoteResult{}, err
	}
	metrics.RecordQuote(req.BetType.String())
	return QuoteResult{Quote: q, DrawID: draw.ID, OperatorID: op.ID}, nil
}

// PlaceBet prices the bet, checks the caller's game balance and submits the
// ticket. The backend assigns the ticket id and owns the debit.
func (b *Betting) PlaceBet(ctx context.Context, req BetRequest) (BetReceipt, error) {
	sess, ok := session.From(ctx)
	if !ok {
		return BetReceipt{}, ErrUnauthenticated
	}
	qr, err := b.Quote(ctx, req)
	if err != nil {
		return BetReceipt{}, err
	}

	bal, err := b.gameBalance(ctx, sess.UserID)
	if err != nil {
		return BetReceipt{}, err
	}
	if err := betrules.CheckBalance(qr.TotalCost, bal); err != nil {
		metrics.RecordRejection(string(betrules.InsufficientStake))
		return BetReceipt{}, err
	}

	sub := backend.TicketSubmission{
		DrawID:       qr.DrawID,
		BetType:      qr.BetType,
		Numbers:      betrules.EncodeNumbers(qr.Selection),
		BetAmount:    qr.TotalCost,
		Position:     qr.Selection.Position,
		Combinations: qr.Pairs,
	}
	if qr.BetType == betrules.Banka {
		sub.BaseNumber = qr.Selection.Base
		sub.AssociatedNumbers = qr.Selection.Numbers
	}

	book := "backend"
	receipt, err := b.backend.SubmitTicket(ctx, sub)
	if backend.IsNetworkError(err) && b.localFor(ctx) {
		b.log.Warn("backend unreachable, placing ticket in local book", zap.String("draw_id", qr.DrawID), zap.Error(err))
		book = "local"
		receipt, err = b.local.PlaceTicket(ctx, sess.UserID, qr.DrawID, qr.Quote)
	}
	if err != nil {
		return BetReceipt{}, err
	}
	metrics.RecordBet(qr.BetType.String(), book, qr.TotalCost)
	b.log.Info("ticket placed",
		zap.String("ticket_id", receipt.Ticket.ID),
		zap.String("draw_id", qr.DrawID),
		zap.Stringer("bet_type", qr.BetType),
		zap.Int64("total_cost", qr.TotalCost),
		zap.String("book", book))
	return BetReceipt{Ticket: receipt.Ticket, NewBalance: receipt.NewBalance, Book: book}, nil
}

// UpcomingDraws lists draws open for betting, soonest first.
func (b *Betting) UpcomingDraws(ctx context.Context) ([]models.Draw, error) {
	return cached(ctx, b.cache, upcomingDrawsKey, func(ctx context.Context) ([]models.Draw, error) {
		draws, err := b.backend.ListDraws(ctx, models.DrawUpcoming)
		if backend.IsNetworkError(err) && b.local != nil {
			return b.local.UpcomingDraws(ctx)
		}
		if err != nil {
			return nil, err
		}
		now := b.now()
		draws = slices.DeleteFunc(draws, func(d models.Draw) bool { return !d.AcceptsBets(now) })
		slices.SortFunc(draws, func(a, c models.Draw) int { return a.DrawAt.Compare(c.DrawAt) })
		return draws, nil
	})
}

func (b *Betting) Draw(ctx context.Context, id string) (models.Draw, error) {
	return b.draw(ctx, id)
}

func (b *Betting) MyTickets(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := b.backend.MyTickets(ctx)
	if backend.IsNetworkError(err) && b.localFor(ctx) {
		sess, _ := session.From(ctx)
		return b.local.TicketsByUser(ctx, sess.UserID)
	}
	return tickets, err
}

// QuickPick returns a random valid selection for the operator's pool.
func (b *Betting) QuickPick(bt betrules.BetType, operatorID string) (betrules.Selection, error) {
	op, err := b.catalog.Get(operatorID)
	if err != nil {
		return betrules.Selection{}, err
	}
	return betrules.QuickPick(bt, op.NumbersPool, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func (b *Betting) draw(ctx context.Context, id string) (models.Draw, error) {
	d, err := b.backend.GetDraw(ctx, id)
	if backend.IsNetworkError(err) && b.local != nil {
		return b.local.GetDraw(ctx, id)
	}
	return d, err
}

// localFor reports whether the local book may act for the caller. Balances
// there are keyed by user ID, so the ID must come from a verified session.
func (b *Betting) localFor(ctx context.Context) bool {
	if b.local == nil {
		return false
	}
	sess, _ := session.From(ctx)
	return sess.Verified
}

func (b *Betting) gameBalance(ctx context.Context, userID string) (int64, error) {
	me, err := b.backend.Me(ctx)
	if backend.IsNetworkError(err) && b.localFor(ctx) {
		bal, lerr := b.local.Balance(ctx, userID)
		return bal.Game, lerr
	}
	if err != nil {
		return 0, err
	}
	return me.Balance.Game, nil
}

// Cache is a JSON key/value cache.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

const upcomingDrawsKey = "draws:upcoming"

// cached serves key from c when possible and stores fresh loads. Cache
// failures fall through to load.
func cached[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var v T
	if hit, err := c.GetJSON(ctx, key, &v); err == nil && hit {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = c.SetJSON(ctx, key, v)
	return v, nil
}
