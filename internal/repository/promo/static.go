package promo

import (
	"context"
	"sort"
	"time"

	"quickbite/internal/domain"
)

// staticRepo serves the built-in promo table. Used when no database is
// configured and as the seed source.
type staticRepo struct {
	byCode map[string]domain.Promo
}

// NewStatic returns a catalog over the given promos, or the defaults
// when none are given.
func NewStatic(promos ...domain.Promo) Repository {
	if len(promos) == 0 {
		promos = Defaults()
	}
	byCode := make(map[string]domain.Promo, len(promos))
	for _, p := range promos {
		byCode[domain.NormalizeCode(p.Code)] = p
	}
	return &staticRepo{byCode: byCode}
}

func (r *staticRepo) GetByCode(_ context.Context, code string) (*domain.Promo, error) {
	p, ok := r.byCode[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrPromoNotFound
	}
	return &p, nil
}

func (r *staticRepo) List(_ context.Context) ([]domain.Promo, error) {
	out := make([]domain.Promo, 0, len(r.byCode))
	for _, p := range r.byCode {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Defaults is the built-in promo catalog.
func Defaults() []domain.Promo {
	validUntil := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	return []domain.Promo{
		{
			Code:             "SAVE10",
			Description:      "10% off your order",
			Kind:             domain.PromoPercentage,
			Effect:           domain.EffectSubtractSubtotal,
			Percent:          10,
			MinSubtotalCents: 2000,
			ValidUntil:       validUntil,
		},
		{
			Code:             "WELCOME20",
			Description:      "20% off orders over $25",
			Kind:             domain.PromoPercentage,
			Effect:           domain.EffectSubtractSubtotal,
			Percent:          20,
			MinSubtotalCents: 2500,
			ValidUntil:       validUntil,
		},
		{
			Code:             "FREEDELIVERY",
			Description:      "Free delivery on any order",
			Kind:             domain.PromoFixed,
			Effect:           domain.EffectWaiveDelivery,
			AmountCents:      BaseWaiverCents,
			MinSubtotalCents: 0,
			ValidUntil:       validUntil,
		},
		{
			Code:             "FIVEOFF",
			Description:      "$5 off orders over $30",
			Kind:             domain.PromoFixed,
			Effect:           domain.EffectSubtractSubtotal,
			AmountCents:      500,
			MinSubtotalCents: 3000,
			ValidUntil:       validUntil,
		},
	}
}

// BaseWaiverCents is the nominal value of the delivery waiver, kept for
// display; the actual effect is the fee override.
const BaseWaiverCents int64 = 299

func (r *staticRepo) Upsert(_ context.Context, p domain.Promo) error {
	r.byCode[domain.NormalizeCode(p.Code)] = p
	return nil
}
