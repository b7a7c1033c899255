package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"lotto-happy/internal/models"
)

func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	var tok Token
	form := url.Values{"username": {username}, "password": {password}}
	err := c.do(ctx, request{method: http.MethodPost, route: "auth.login", path: "/api/auth/login", form: form}, &tok)
	return tok, err
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (models.User, error) {
	var u models.User
	err := c.send(ctx, http.MethodPost, "auth.register", "/api/auth/register", in, &u)
	return u, err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.get(ctx, "auth.me", "/api/auth/me", nil, &u)
	return u, err
}

// ListDraws returns all draws, or only those with the given status.
func (c *Client) ListDraws(ctx context.Context, status models.DrawStatus) ([]models.Draw, error) {
	path := "/api/draws"
	if status != "" {
		path += "/" + url.PathEscape(string(status))
	}
	var wire []drawWire
	if err := c.get(ctx, "draws.list", path, nil, &wire); err != nil {
		return nil, err
	}
	return drawModels(wire)
}

func (c *Client) GetDraw(ctx context.Context, id string) (models.Draw, error) {
	var w drawWire
	if err := c.get(ctx, "draws.get", "/api/draws/"+url.PathEscape(id), nil, &w); err != nil {
		return models.Draw{}, err
	}
	return w.model()
}

func (c *Client) CreateDraw(ctx context.Context, in DrawInput) (models.Draw, error) {
	var w drawWire
	if err := c.send(ctx, http.MethodPost, "draws.create", "/api/draws", in, &w); err != nil {
		return models.Draw{}, err
	}
	return w.model()
}

func (c *Client) UpdateDraw(ctx context.Context, id string, in DrawInput) (models.Draw, error) {
	var w drawWire
	if err := c.send(ctx, http.MethodPut, "draws.update", "/api/draws/"+url.PathEscape(id), in, &w); err != nil {
		return models.Draw{}, err
	}
	return w.model()
}

func (c *Client) DeleteDraw(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "draws.delete", "/api/draws/"+url.PathEscape(id), nil, nil)
}

// PublishResults hands the winning numbers to the backend, which settles
// every ticket of the draw.
func (c *Client) PublishResults(ctx context.Context, id string, winning []int) (ResultsResponse, error) {
	var wire struct {
		Draw  *drawWire               `json:"draw"`
		Stats models.SettlementReport `json:"stats"`
	}
	body := map[string][]int{"winning_numbers": winning}
	if err := c.send(ctx, http.MethodPut, "draws.results", "/api/draws/"+url.PathEscape(id)+"/results", body, &wire); err != nil {
		return ResultsResponse{}, err
	}
	out := ResultsResponse{Stats: wire.Stats}
	if wire.Draw != nil {
		d, err := wire.Draw.model()
		if err != nil {
			return ResultsResponse{}, err
		}
		out.Draw = d
	}
	return out, nil
}

func (c *Client) SubmitTicket(ctx context.Context, in TicketSubmission) (TicketReceipt, error) {
	var out TicketReceipt
	err := c.send(ctx, http.MethodPost, "tickets.create", "/api/tickets", in, &out)
	return out, err
}

func (c *Client) MyTickets(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	err := c.get(ctx, "tickets.me", "/api/tickets/me", nil, &out)
	return out, err
}

func (c *Client) TicketsByDraw(ctx context.Context, drawID string) ([]models.Ticket, error) {
	var out []models.Ticket
	err := c.get(ctx, "tickets.draw", "/api/tickets/draw/"+url.PathEscape(drawID), nil, &out)
	return out, err
}

func (c *Client) Convert(ctx context.Context, amount int64) (ConvertResult, error) {
	var out ConvertResult
	err := c.send(ctx, http.MethodPost, "players.convert", "/api/players/me/convert", map[string]int64{"amount": amount}, &out)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, page, size int) (models.Page[models.Transaction], error) {
	var out models.Page[models.Transaction]
	q := url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	err := c.get(ctx, "players.transactions", "/api/players/me/transactions", q, &out)
	return out, err
}

func (c *Client) RequestWithdrawal(ctx context.Context, in WithdrawalRequest) (WithdrawalReceipt, error) {
	var out WithdrawalReceipt
	err := c.send(ctx, http.MethodPost, "withdrawals.create", "/api/withdrawals", in, &out)
	return out, err
}

func (c *Client) MyWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	err := c.get(ctx, "withdrawals.me", "/api/withdrawals/me", nil, &out)
	return out, err
}

func (c *Client) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	var out []models.Withdrawal
	err := c.get(ctx, "withdrawals.list", "/api/withdrawals", q, &out)
	return out, err
}

func (c *Client) ApproveWithdrawal(ctx context.Context, id, notes string) (models.Withdrawal, error) {
	var out models.Withdrawal
	err := c.send(ctx, http.MethodPut, "withdrawals.approve", "/api/withdrawals/"+url.PathEscape(id)+"/approve",
		map[string]string{"notes": notes}, &out)
	return out, err
}

func (c *Client) RejectWithdrawal(ctx context.Context, id, reason string) (RejectResult, error) {
	var out RejectResult
	err := c.send(ctx, http.MethodPut, "withdrawals.reject", "/api/withdrawals/"+url.PathEscape(id)+"/reject",
		map[string]string{"reason": reason}, &out)
	return out, err
}

func (c *Client) FindPlayer(ctx context.Context, phone string) (models.User, error) {
	var out models.User
	err := c.get(ctx, "resellers.find", "/api/resellers/find-player-by-phone", url.Values{"phoneNumber": {phone}}, &out)
	return out, err
}

func (c *Client) CreditPlayer(ctx context.Context, phone string, amount int64) (CreditResult, error) {
	var out CreditResult
	body := struct {
		PlayerPhoneNumber string `json:"playerPhoneNumber"`
		Amount            int64  `json:"amount"`
	}{phone, amount}
	err := c.send(ctx, http.MethodPost, "resellers.credit", "/api/resellers/me/credit-player", body, &out)
	return out, err
}

func (c *Client) RechargeHistory(ctx context.Context, skip, limit int) (RechargeHistory, error) {
	var out RechargeHistory
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	err := c.get(ctx, "resellers.history", "/api/resellers/me/recharge-history", q, &out)
	return out, err
}

func (c *Client) SetUserStatus(ctx context.Context, userID string, active bool) (models.User, error) {
	var out models.User
	err := c.send(ctx, http.MethodPut, "admin.users.status", "/api/admin/users/"+url.PathEscape(userID)+"/status",
		map[string]string{"status": userStatus(active)}, &out)
	return out, err
}

func (c *Client) WinnerFeed(ctx context.Context) ([]models.Winner, error) {
	var out []models.Winner
	err := c.get(ctx, "public.winners", "/api/public/winner-feed", nil, &out)
	return out, err
}

// userStatus is the backend's account status word.
func userStatus(active bool) string {
	if active {
		return "active"
	}
	return "suspended"
}
