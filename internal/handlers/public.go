package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/middleware"
	"lotto-happy/internal/models"
)

func (a *API) operators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Public.Operators())
}

func (a *API) betTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Public.BetTypes())
}

// mobileMoney takes the dial code in ?country=, e.g. %2B228.
func (a *API) mobileMoney(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Public.MobileMoney(r.URL.Query().Get("country")))
}

func (a *API) upcomingDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := a.Betting.UpcomingDraws(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if draws == nil {
		draws = []models.Draw{}
	}
	writeJSON(w, http.StatusOK, draws)
}

func (a *API) getDraw(w http.ResponseWriter, r *http.Request) {
	d, err := a.Betting.Draw(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *API) winners(w http.ResponseWriter, r *http.Request) {
	ws, err := a.Public.Winners(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// login relays credentials to the backend and also sets the token cookie
// read by the web app.
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	tok, err := a.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tok.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	writeJSON(w, http.StatusOK, tok)
}

type registerRequest struct {
	Username    string      `json:"username" validate:"required,min=3"`
	Email       string      `json:"email" validate:"omitempty,email"`
	PhoneNumber string      `json:"phoneNumber" validate:"required"`
	Password    string      `json:"password" validate:"required,min=6"`
	Role        models.Role `json:"role" validate:"omitempty,oneof=player reseller"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RolePlayer
	}
	u, err := a.Accounts.Register(r.Context(), backend.RegisterRequest(req))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}
