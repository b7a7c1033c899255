package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
	"lotto-happy/internal/stats"
)

// drawRequest takes the draw schedule in UTC, as the back office sends it.
type drawRequest struct {
	OperatorID  string               `json:"operatorId" validate:"required"`
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string               `json:"time" validate:"required,datetime=15:04"`
	Multipliers betrules.Multipliers `json:"multipliers"`
}

func (d drawRequest) input() backend.DrawInput {
	return backend.DrawInput{OperatorID: d.OperatorID, Date: d.Date, Time: d.Time, Multipliers: d.Multipliers}
}

func (a *API) adminDraws(w http.ResponseWriter, r *http.Request) {
	status := models.DrawStatus(r.URL.Query().Get("status"))
	draws, err := a.Admin.Draws(r.Context(), status)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if draws == nil {
		draws = []models.Draw{}
	}
	writeJSON(w, http.StatusOK, draws)
}

func (a *API) createDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	d, err := a.Admin.CreateDraw(r.Context(), req.input())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *API) updateDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	d, err := a.Admin.UpdateDraw(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *API) deleteDraw(w http.ResponseWriter, r *http.Request) {
	if err := a.Admin.DeleteDraw(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resultsRequest struct {
	WinningNumbers []int `json:"winningNumbers" validate:"required,min=1"`
}

func (a *API) publishResults(w http.ResponseWriter, r *http.Request) {
	var req resultsRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.Admin.PublishResults(r.Context(), chi.URLParam(r, "id"), req.WinningNumbers)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) withdrawals(w http.ResponseWriter, r *http.Request) {
	ws, err := a.Admin.Withdrawals(r.Context(), models.WithdrawalStatus(r.URL.Query().Get("status")))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if ws == nil {
		ws = []models.Withdrawal{}
	}
	writeJSON(w, http.StatusOK, ws)
}

type approveRequest struct {
	Notes string `json:"notes"`
}

func (a *API) approveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			a.writeError(w, r, err)
			return
		}
	}
	wd, err := a.Admin.ApproveWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (a *API) rejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.Admin.RejectWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type userStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (a *API) setUserStatus(w http.ResponseWriter, r *http.Request) {
	var req userStatusRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.Admin.SetUserStatus(r.Context(), chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) period(r *http.Request) (stats.Period, error) {
	p, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		return "", badRequest{err}
	}
	return p, nil
}

// risk serves GET /admin/risk?period=today&limit=20.
func (a *API) risk(w http.ResponseWriter, r *http.Request) {
	p, err := a.period(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	rep, err := a.Admin.RiskReport(r.Context(), p, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := a.period(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	rep, err := a.Admin.Dashboard(r.Context(), p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type adjustRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

// adjustLocalBalance credits (or, with a negative amount, debits) a game
// balance held in the local book.
func (a *API) adjustLocalBalance(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	bal, err := a.Admin.AdjustLocalBalance(r.Context(), chi.URLParam(r, "userID"), req.Amount)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bal)
}
