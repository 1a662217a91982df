package pricing

import (
	"math"
	"time"

	"quickbite/internal/domain"
)

// Pricing constants, cent precision.
const (
	BaseDeliveryFeeCents       int64 = 299
	FreeDeliveryThresholdCents int64 = 3000
	TaxRate                          = 0.0875
)

// Engine computes totals from cart lines and an optional promo. It is
// pure: no state, no side effects.
type Engine struct{}

func New() Engine { return Engine{} }

// Compute derives the totals breakdown. Rules, in order: subtotal; the
// delivery fee (waived at the free-delivery threshold or by an eligible
// delivery-waiver promo); tax on subtotal only; promo discount; floored
// total. An ineligible or expired promo yields ErrPromoIneligible so the
// caller can inform the user instead of silently dropping the code; the
// returned totals are then the promo-less breakdown.
func (Engine) Compute(lines []domain.CartLine, promo *domain.Promo, now time.Time) (domain.Totals, error) {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.TotalCents()
	}

	fee := BaseDeliveryFeeCents
	if subtotal >= FreeDeliveryThresholdCents {
		fee = 0
	}
	tax := roundCents(float64(subtotal) * TaxRate)

	t := domain.Totals{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TaxCents:         tax,
	}

	var promoErr error
	if promo != nil {
		switch {
		case promo.Expired(now), !promo.EligibleFor(subtotal):
			promoErr = domain.ErrPromoIneligible
		default:
			t.PromoCode = promo.Code
			switch promo.Effect {
			case domain.EffectWaiveDelivery:
				t.DeliveryFeeCents = 0
			default:
				t.DiscountCents = discountFor(*promo, subtotal)
			}
		}
	}

	sum := t.SubtotalCents + t.DeliveryFeeCents + t.TaxCents - t.DiscountCents
	if sum < 0 {
		sum = 0
	}
	t.TotalCents = sum
	return t, promoErr
}

// discountFor is the subtotal-side discount. A fixed amount is capped at
// the subtotal; the delivery waiver never reaches here.
func discountFor(p domain.Promo, subtotal int64) int64 {
	switch p.Kind {
	case domain.PromoPercentage:
		return roundCents(float64(subtotal) * float64(p.Percent) / 100)
	case domain.PromoFixed:
		if p.AmountCents > subtotal {
			return subtotal
		}
		return p.AmountCents
	}
	return 0
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
