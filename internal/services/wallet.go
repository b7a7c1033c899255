package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
)

type WalletBackend interface {
	Me(ctx context.Context) (models.User, error)
	Convert(ctx context.Context, amount int64) (backend.ConvertResult, error)
	Transactions(ctx context.Context, page, size int) (models.Page[models.Transaction], error)
	RequestWithdrawal(ctx context.Context, in backend.WithdrawalRequest) (backend.WithdrawalReceipt, error)
	MyWithdrawals(ctx context.Context) ([]models.Withdrawal, error)
}

type Wallet struct {
	backend       WalletBackend
	notifier      Notifier
	minWithdrawal int64
	log           *zap.Logger
}

func NewWallet(be WalletBackend, n Notifier, minWithdrawal int64, log *zap.Logger) *Wallet {
	if n == nil {
		n = NopNotifier{}
	}
	return &Wallet{backend: be, notifier: n, minWithdrawal: minWithdrawal, log: log.Named("wallet")}
}

// Convert moves winnings into the game balance.
func (w *Wallet) Convert(ctx context.Context, amount int64) (backend.ConvertResult, error) {
	if amount <= 0 {
		return backend.ConvertResult{}, ErrInvalidAmount
	}
	me, err := w.backend.Me(ctx)
	if err != nil {
		return backend.ConvertResult{}, err
	}
	if amount > me.Balance.Winnings {
		return backend.ConvertResult{}, fmt.Errorf("%w: %d > %d", ErrInsufficientWinnings, amount, me.Balance.Winnings)
	}
	return w.backend.Convert(ctx, amount)
}

func (w *Wallet) Transactions(ctx context.Context, page, size int) (models.Page[models.Transaction], error) {
	page, size = normalizePage(page, size)
	return w.backend.Transactions(ctx, page, size)
}

// WithdrawalStep names one screen of the withdrawal wizard.
type WithdrawalStep string

const (
	StepAmount   WithdrawalStep = "amount"
	StepProvider WithdrawalStep = "provider"
	StepPhone    WithdrawalStep = "phone"
)

type WithdrawalDraft struct {
	Amount      int64
	Provider    string
	DialCode    string
	PhoneNumber string
}

// ValidateStep checks the wizard up to and including step, so the provider
// step also rechecks the amount.
func (w *Wallet) ValidateStep(ctx context.Context, d WithdrawalDraft, step WithdrawalStep) error {
	if d.Amount < w.minWithdrawal {
		return fmt.Errorf("%w: minimum is %d", ErrBelowMinimumWithdrawal, w.minWithdrawal)
	}
	me, err := w.backend.Me(ctx)
	if err != nil {
		return err
	}
	if d.Amount > me.Balance.Winnings {
		return fmt.Errorf("%w: %d > %d", ErrInsufficientWinnings, d.Amount, me.Balance.Winnings)
	}
	if step == StepAmount {
		return nil
	}

	p, err := catalog.Provider(d.Provider)
	if err != nil {
		return err
	}
	served := false
	for _, c := range catalog.ProvidersForCountry(d.DialCode) {
		if c.ID == p.ID {
			served = true
		}
	}
	if !served {
		return fmt.Errorf("%w: %s in %s", catalog.ErrProviderNotInCountry, p.Name, d.DialCode)
	}
	if step == StepProvider {
		return nil
	}

	_, err = catalog.ValidateNumberForProvider(d.PhoneNumber, d.DialCode, d.Provider)
	return err
}

// RequestWithdrawal validates the whole wizard and submits the request.
func (w *Wallet) RequestWithdrawal(ctx context.Context, d WithdrawalDraft) (backend.WithdrawalReceipt, error) {
	if err := w.ValidateStep(ctx, d, StepPhone); err != nil {
		return backend.WithdrawalReceipt{}, err
	}
	local, _ := catalog.ValidatePhone(d.PhoneNumber, d.DialCode)
	receipt, err := w.backend.RequestWithdrawal(ctx, backend.WithdrawalRequest{
		Amount:      d.Amount,
		Provider:    d.Provider,
		PhoneNumber: d.DialCode + local,
	})
	if err != nil {
		return backend.WithdrawalReceipt{}, err
	}
	w.log.Info("withdrawal requested", zap.String("withdrawal_id", receipt.Withdrawal.ID), zap.Int64("amount", d.Amount))
	w.notifier.Notify(ctx, fmt.Sprintf("💸 Nouvelle demande de retrait: %d FCFA via %s (%s%s)",
		d.Amount, d.Provider, d.DialCode, local))
	return receipt, nil
}

func (w *Wallet) MyWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	return w.backend.MyWithdrawals(ctx)
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = 20
	case size > 100:
		size = 100
	}
	return page, size
}
