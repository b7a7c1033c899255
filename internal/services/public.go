package services

import (
	"context"

	"lotto-happy/internal/betrules"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/models"
)

type WinnerFeedBackend interface {
	WinnerFeed(ctx context.Context) ([]models.Winner, error)
}

// Public serves reference data that needs no session.
type Public struct {
	backend WinnerFeedBackend
	catalog *catalog.Catalog
	cache   Cache
}

func NewPublic(be WinnerFeedBackend, cat *catalog.Catalog, c Cache) *Public {
	return &Public{backend: be, catalog: cat, cache: c}
}

func (p *Public) Operators() []catalog.Operator { return p.catalog.All() }

func (p *Public) BetTypes() []betrules.Config { return betrules.Catalog() }

// MobileMoney lists providers for a dial code, or all of them.
func (p *Public) MobileMoney(dialCode string) []catalog.MobileMoneyOperator {
	if dialCode == "" {
		return catalog.MobileMoneyOperators()
	}
	return catalog.ProvidersForCountry(dialCode)
}

func (p *Public) Winners(ctx context.Context) ([]models.Winner, error) {
	return cached(ctx, p.cache, "winners", p.backend.WinnerFeed)
}
