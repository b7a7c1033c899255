package handlers

import (
	"net/http"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
	"lotto-happy/internal/services"
)

type betRequest struct {
	DrawID     string            `json:"drawId" validate:"required"`
	BetType    betrules.BetType  `json:"betType" validate:"required"`
	Numbers    []int             `json:"numbers"`
	BaseNumber int               `json:"baseNumber"`
	Position   betrules.Position `json:"position"`
	// Stake is per combination.
	Stake int64 `json:"stake"`
}

func (b betRequest) toService() services.BetRequest {
	return services.BetRequest{
		DrawID:    b.DrawID,
		BetType:   b.BetType,
		Selection: betrules.Selection{Numbers: b.Numbers, Base: b.BaseNumber, Position: b.Position},
		Stake:     b.Stake,
	}
}

func (a *API) quote(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	q, err := a.Betting.Quote(r.Context(), req.toService())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (a *API) placeBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	receipt, err := a.Betting.PlaceBet(r.Context(), req.toService())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// quickPick serves GET /bets/quick-pick?type=NAP3&operator=togo-kadoo.
func (a *API) quickPick(w http.ResponseWriter, r *http.Request) {
	bt, err := betrules.ParseBetType(r.URL.Query().Get("type"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sel, err := a.Betting.QuickPick(bt, r.URL.Query().Get("operator"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (a *API) myTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := a.Betting.MyTickets(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.Accounts.Me(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type amountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (a *API) convert(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.Wallet.Convert(r.Context(), req.Amount)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) transactions(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", 20)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Wallet.Transactions(r.Context(), page, size)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type withdrawalRequest struct {
	Step        services.WithdrawalStep `json:"step" validate:"omitempty,oneof=amount provider phone"`
	Amount      int64                   `json:"amount"`
	Provider    string                  `json:"provider"`
	DialCode    string                  `json:"countryCode"`
	PhoneNumber string                  `json:"phoneNumber"`
}

func (w withdrawalRequest) draft() services.WithdrawalDraft {
	return services.WithdrawalDraft{Amount: w.Amount, Provider: w.Provider, DialCode: w.DialCode, PhoneNumber: w.PhoneNumber}
}

// validateWithdrawal checks the wizard up to the requested step so the app
// can report errors screen by screen.
func (a *API) validateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	step := req.Step
	if step == "" {
		step = services.StepPhone
	}
	if err := a.Wallet.ValidateStep(r.Context(), req.draft(), step); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "step": step})
}

func (a *API) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	receipt, err := a.Wallet.RequestWithdrawal(r.Context(), req.draft())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (a *API) myWithdrawals(w http.ResponseWriter, r *http.Request) {
	ws, err := a.Wallet.MyWithdrawals(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if ws == nil {
		ws = []models.Withdrawal{}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (a *API) findPlayer(w http.ResponseWriter, r *http.Request) {
	u, err := a.Reseller.FindPlayer(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type creditRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

func (a *API) creditPlayer(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.Reseller.CreditPlayer(r.Context(), req.PhoneNumber, req.Amount)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) rechargeHistory(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", 20)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	h, err := a.Reseller.History(r.Context(), page, size)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}
