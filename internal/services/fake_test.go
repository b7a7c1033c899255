package services

import (
	"context"
	"sync"
	"time"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/models"
)

var netErr = &backend.APIError{Code: backend.CodeNetwork, Message: "connection refused"}

// fakeBackend implements every backend interface the services use.
type fakeBackend struct {
	mu sync.Mutex

	down        bool
	draws       map[string]models.Draw
	tickets     map[string][]models.Ticket
	user        models.User
	submitted   []backend.TicketSubmission
	submitErr   error
	results     backend.ResultsResponse
	published   [][]int
	withdrawals []backend.WithdrawalRequest
	credits     []string
	rejected    []string
	winners     []models.Winner
	winnerCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		draws:   map[string]models.Draw{},
		tickets: map[string][]models.Ticket{},
		user:    models.User{ID: "u1", Role: models.RolePlayer, Balance: models.Balance{Game: 10000, Winnings: 2000, Tokens: 5000}},
	}
}

func (f *fakeBackend) ListDraws(_ context.Context, status models.DrawStatus) ([]models.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, netErr
	}
	var out []models.Draw
	for _, d := range f.draws {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetDraw(_ context.Context, id string) (models.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return models.Draw{}, netErr
	}
	d, ok := f.draws[id]
	if !ok {
		return models.Draw{}, &backend.APIError{Code: backend.CodeAPI, Message: "Draw not found", Status: 404}
	}
	return d, nil
}

func (f *fakeBackend) CreateDraw(_ context.Context, in backend.DrawInput) (models.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return models.Draw{}, netErr
	}
	at, err := in.At()
	if err != nil {
		return models.Draw{}, err
	}
	d := models.Draw{ID: "d-new", OperatorID: in.OperatorID, DrawAt: at, Multipliers: in.Multipliers, Status: models.DrawUpcoming}
	f.draws[d.ID] = d
	return d, nil
}

func (f *fakeBackend) UpdateDraw(_ context.Context, id string, in backend.DrawInput) (models.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draws[id]
	at, err := in.At()
	if err != nil {
		return models.Draw{}, err
	}
	d.DrawAt = at
	d.Multipliers = in.Multipliers
	f.draws[id] = d
	return d, nil
}

func (f *fakeBackend) DeleteDraw(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.draws, id)
	return nil
}

func (f *fakeBackend) PublishResults(_ context.Context, id string, winning []int) (backend.ResultsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, winning)
	return f.results, nil
}

func (f *fakeBackend) TicketsByDraw(_ context.Context, drawID string) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickets[drawID], nil
}

func (f *fakeBackend) SubmitTicket(_ context.Context, in backend.TicketSubmission) (backend.TicketReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return backend.TicketReceipt{}, netErr
	}
	if f.submitErr != nil {
		return backend.TicketReceipt{}, f.submitErr
	}
	f.submitted = append(f.submitted, in)
	f.user.Balance.Game -= in.BetAmount
	t := models.Ticket{ID: "t-1", DrawID: in.DrawID, BetType: in.BetType, Numbers: in.Numbers, Stake: in.BetAmount, Status: models.TicketPending}
	return backend.TicketReceipt{Ticket: t, NewBalance: f.user.Balance.Game}, nil
}

func (f *fakeBackend) MyTickets(context.Context) ([]models.Ticket, error) {
	if f.down {
		return nil, netErr
	}
	return nil, nil
}

func (f *fakeBackend) Me(context.Context) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return models.User{}, netErr
	}
	return f.user, nil
}

func (f *fakeBackend) Convert(_ context.Context, amount int64) (backend.ConvertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user.Balance.Winnings -= amount
	f.user.Balance.Game += amount
	return backend.ConvertResult{NewBalanceGame: f.user.Balance.Game, NewBalanceWinnings: f.user.Balance.Winnings}, nil
}

func (f *fakeBackend) Transactions(_ context.Context, page, size int) (models.Page[models.Transaction], error) {
	return models.Page[models.Transaction]{Page: page, Size: size}, nil
}

func (f *fakeBackend) RequestWithdrawal(_ context.Context, in backend.WithdrawalRequest) (backend.WithdrawalReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawals = append(f.withdrawals, in)
	return backend.WithdrawalReceipt{Withdrawal: models.Withdrawal{ID: "w1", Amount: in.Amount, Status: models.WithdrawalPending}}, nil
}

func (f *fakeBackend) MyWithdrawals(context.Context) ([]models.Withdrawal, error) { return nil, nil }

func (f *fakeBackend) ListWithdrawals(context.Context, models.WithdrawalStatus) ([]models.Withdrawal, error) {
	return nil, nil
}

func (f *fakeBackend) ApproveWithdrawal(_ context.Context, id, notes string) (models.Withdrawal, error) {
	return models.Withdrawal{ID: id, Status: models.WithdrawalApproved, Notes: notes}, nil
}

func (f *fakeBackend) RejectWithdrawal(_ context.Context, id, reason string) (backend.RejectResult, error) {
	f.rejected = append(f.rejected, reason)
	return backend.RejectResult{Withdrawal: models.Withdrawal{ID: id, Status: models.WithdrawalRejected, RejectionReason: reason}}, nil
}

func (f *fakeBackend) SetUserStatus(_ context.Context, id string, active bool) (models.User, error) {
	return models.User{ID: id, IsActive: active}, nil
}

func (f *fakeBackend) FindPlayer(_ context.Context, phone string) (models.User, error) {
	return models.User{ID: "p1", PhoneNumber: phone}, nil
}

func (f *fakeBackend) CreditPlayer(_ context.Context, phone string, amount int64) (backend.CreditResult, error) {
	f.credits = append(f.credits, phone)
	return backend.CreditResult{ResellerNewBalance: f.user.Balance.Tokens - amount}, nil
}

func (f *fakeBackend) RechargeHistory(_ context.Context, skip, limit int) (backend.RechargeHistory, error) {
	return backend.RechargeHistory{Total: skip + limit}, nil
}

func (f *fakeBackend) WinnerFeed(context.Context) ([]models.Winner, error) {
	f.winnerCalls++
	return f.winners, nil
}

// recordingNotifier keeps every message.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Notify(_ context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, text)
}

// memCache is an in-process Cache.
type memCache struct {
	data map[string]any
}

func (m *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	switch o := out.(type) {
	case *[]models.Winner:
		*o = v.([]models.Winner)
	case *[]models.Draw:
		*o = v.([]models.Draw)
	}
	return true, nil
}

func (m *memCache) SetJSON(_ context.Context, key string, v any) error {
	m.data[key] = v
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
