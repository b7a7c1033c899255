package backend

import (
	"lotto-happy/internal/betrules"
	"lotto-happy/internal/models"
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
}

type ResultsResponse struct {
	Draw  models.Draw             `json:"draw"`
	Stats models.SettlementReport `json:"stats"`
}

// TicketSubmission is the ticket payload; BetAmount is the total cost.
type TicketSubmission struct {
	DrawID            string            `json:"draw_id"`
	BetType           betrules.BetType  `json:"bet_type"`
	Numbers           string            `json:"numbers"`
	BetAmount         int64             `json:"bet_amount"`
	BaseNumber        int               `json:"base_number,omitempty"`
	AssociatedNumbers []int             `json:"associated_numbers,omitempty"`
	Position          betrules.Position `json:"position,omitempty"`
	Combinations      [][2]int          `json:"combinations,omitempty"`
}

type TicketReceipt struct {
	Ticket     models.Ticket `json:"ticket"`
	NewBalance int64         `json:"new_balance"`
}

type ConvertResult struct {
	NewBalanceGame     int64 `json:"new_balance_game"`
	NewBalanceWinnings int64 `json:"new_balance_winnings"`
}

type WithdrawalRequest struct {
	Amount      int64  `json:"amount"`
	Provider    string `json:"provider"`
	PhoneNumber string `json:"withdrawal_phone_number"`
}

type WithdrawalReceipt struct {
	Withdrawal         models.Withdrawal `json:"withdrawal"`
	NewBalanceWinnings int64             `json:"new_balance_winnings"`
}

type RejectResult struct {
	Withdrawal           models.Withdrawal `json:"withdrawal"`
	PlayerRefundedAmount int64             `json:"player_refunded_amount"`
	PlayerNewBalance     int64             `json:"player_new_balance"`
}

type CreditResult struct {
	Receipt            models.RechargeReceipt `json:"receipt"`
	ResellerNewBalance int64                  `json:"reseller_new_balance"`
}

type RechargeHistory struct {
	Total int                      `json:"total"`
	Items []models.RechargeReceipt `json:"items"`
}
