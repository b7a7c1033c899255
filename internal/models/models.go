package models

import (
	"time"

	"lotto-happy/internal/betrules"
)

type DrawStatus string

const (
	DrawUpcoming  DrawStatus = "upcoming"
	DrawPending   DrawStatus = "pending"
	DrawCompleted DrawStatus = "completed"
)

// Open reports whether tickets on the draw still wait for a result.
func (s DrawStatus) Open() bool {
	return s == DrawUpcoming || s == DrawPending
}

type Draw struct {
	ID             string               `json:"id"`
	OperatorID     string               `json:"operatorId"`
	DrawAt         time.Time            `json:"drawAt"`
	Multipliers    betrules.Multipliers `json:"multipliers"`
	Status         DrawStatus           `json:"status"`
	WinningNumbers []int                `json:"winningNumbers,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy,omitempty"`
}

// AcceptsBets reports whether a ticket can still be placed at now.
func (d Draw) AcceptsBets(now time.Time) bool {
	return d.Status == DrawUpcoming && now.Before(d.DrawAt)
}

type TicketStatus string

const (
	TicketPending TicketStatus = "pending"
	TicketWon     TicketStatus = "won"
	TicketLost    TicketStatus = "lost"
)

// Ticket is a placed bet. Status and WinAmount are set by settlement only.
type Ticket struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	DrawID            string            `json:"drawId"`
	BetType           betrules.BetType  `json:"betType"`
	Numbers           string            `json:"numbers"`
	BaseNumber        int               `json:"baseNumber,omitempty"`
	AssociatedNumbers []int             `json:"associatedNumbers,omitempty"`
	Position          betrules.Position `json:"position,omitempty"`
	Combinations      [][2]int          `json:"combinations,omitempty"`
	Stake             int64             `json:"betAmount"`
	Status            TicketStatus      `json:"status"`
	WinAmount         int64             `json:"winAmount,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Picks returns the ticket numbers decoded from their wire form, base first.
func (t Ticket) Picks() []int {
	nums, err := betrules.DecodeNumbers(t.Numbers)
	if err != nil {
		return nil
	}
	return nums
}

type Role string

const (
	RolePlayer     Role = "player"
	RoleReseller   Role = "reseller"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleFinance    Role = "admin_finance"
	RoleGameAdmin  Role = "admin_game"
	RoleSupport    Role = "support"
)

// IsAdmin reports whether r is any back-office role.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleFinance, RoleGameAdmin, RoleSupport:
		return true
	}
	return false
}

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"isActive"`
	Balance     Balance   `json:"balance"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Balance carries the player's game and winnings wallets and, for
// resellers, the recharge token float.
type Balance struct {
	Game     int64 `json:"balanceGame" db:"game"`
	Winnings int64 `json:"balanceWinnings" db:"winnings"`
	Tokens   int64 `json:"balanceTokens,omitempty" db:"tokens"`
}

type TransactionType string

const (
	TxRecharge   TransactionType = "RECHARGE"
	TxBet        TransactionType = "BET"
	TxConversion TransactionType = "CONVERSION"
	TxWin        TransactionType = "WIN"
	TxWithdrawal TransactionType = "WITHDRAWAL"
	TxRefund     TransactionType = "REFUND"
)

type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type Withdrawal struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Amount          int64            `json:"amount"`
	Provider        string           `json:"provider"`
	PhoneNumber     string           `json:"withdrawalPhoneNumber"`
	Status          WithdrawalStatus `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type RechargeReceipt struct {
	ID                   string    `json:"id"`
	Date                 time.Time `json:"date"`
	Amount               int64     `json:"amount"`
	PlayerCredited       string    `json:"playerCredited"`
	ResellerBalanceAfter int64     `json:"resellerBalanceAfter"`
}

type Winner struct {
	Username   string           `json:"username"`
	OperatorID string           `json:"operatorId"`
	BetType    betrules.BetType `json:"betType"`
	Amount     int64            `json:"amount"`
	WonAt      time.Time        `json:"wonAt"`
}

// SettlementReport is what the backend returns after results are published.
type SettlementReport struct {
	TotalTickets  int   `json:"totalTickets"`
	TotalWinners  int   `json:"totalWinners"`
	TotalWinnings int64 `json:"totalWinnings"`
	TotalRevenue  int64 `json:"totalRevenue"`
	Profit        int64 `json:"profit"`
}
