package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
)

type ResellerBackend interface {
	Me(ctx context.Context) (models.User, error)
	FindPlayer(ctx context.Context, phone string) (models.User, error)
	CreditPlayer(ctx context.Context, phone string, amount int64) (backend.CreditResult, error)
	RechargeHistory(ctx context.Context, skip, limit int) (backend.RechargeHistory, error)
}

// Reseller lets agents top up player game balances from their token float.
type Reseller struct {
	backend     ResellerBackend
	minRecharge int64
	log         *zap.Logger
}

func NewReseller(be ResellerBackend, minRecharge int64, log *zap.Logger) *Reseller {
	return &Reseller{backend: be, minRecharge: minRecharge, log: log.Named("reseller")}
}

// NormalizePhone strips separators and a leading + from an international
// number and checks what remains is a plausible phone number.
func NormalizePhone(phone string) (string, error) {
	p := strings.TrimPrefix(catalog.CleanPhone(strings.TrimSpace(phone)), "+")
	if len(p) < 8 || len(p) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	return p, nil
}

func (r *Reseller) FindPlayer(ctx context.Context, phone string) (models.User, error) {
	p, err := NormalizePhone(phone)
	if err != nil {
		return models.User{}, err
	}
	return r.backend.FindPlayer(ctx, p)
}

func (r *Reseller) CreditPlayer(ctx context.Context, phone string, amount int64) (backend.CreditResult, error) {
	p, err := NormalizePhone(phone)
	if err != nil {
		return backend.CreditResult{}, err
	}
	if amount < r.minRecharge {
		return backend.CreditResult{}, fmt.Errorf("%w: minimum is %d", ErrBelowMinimumRecharge, r.minRecharge)
	}
	me, err := r.backend.Me(ctx)
	if err != nil {
		return backend.CreditResult{}, err
	}
	if amount > me.Balance.Tokens {
		return backend.CreditResult{}, fmt.Errorf("%w: %d > %d", ErrInsufficientTokens, amount, me.Balance.Tokens)
	}
	res, err := r.backend.CreditPlayer(ctx, p, amount)
	if err != nil {
		return backend.CreditResult{}, err
	}
	r.log.Info("player credited", zap.String("reseller_id", me.ID), zap.String("phone", p), zap.Int64("amount", amount))
	return res, nil
}

func (r *Reseller) History(ctx context.Context, page, size int) (backend.RechargeHistory, error) {
	page, size = normalizePage(page, size)
	return r.backend.RechargeHistory(ctx, (page-1)*size, size)
}
