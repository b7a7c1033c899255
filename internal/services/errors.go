package services

import "errors"

var (
	ErrDrawClosed             = errors.New("draw is closed for betting")
	ErrDrawCompleted          = errors.New("draw already has results")
	ErrDrawInPast             = errors.New("draw time must be in the future")
	ErrInvalidDrawTime        = errors.New("draw date must be YYYY-MM-DD and time HH:MM")
	ErrInvalidWinningNumbers  = errors.New("invalid winning numbers")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientWinnings   = errors.New("amount exceeds winnings balance")
	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	ErrBelowMinimumRecharge   = errors.New("amount below minimum recharge")
	ErrInsufficientTokens     = errors.New("amount exceeds reseller token balance")
	ErrInvalidPhone           = errors.New("invalid phone number")
	ErrReasonRequired         = errors.New("a rejection reason is required")
	ErrUnauthenticated        = errors.New("no authenticated session")
	ErrFallbackDisabled       = errors.New("backend unreachable and local book disabled")
)
