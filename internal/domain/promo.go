package domain

import (
	"strings"
	"time"
)

// PromoKind distinguishes percentage discounts from fixed amounts.
type PromoKind string

const (
	PromoPercentage PromoKind = "percentage"
	PromoFixed      PromoKind = "fixed"
)

// PromoEffect describes how an eligible promo changes the totals. A
// delivery waiver is realized by zeroing the delivery fee, not by
// subtracting from the subtotal.
type PromoEffect string

const (
	EffectSubtractSubtotal PromoEffect = "subtract_subtotal"
	EffectWaiveDelivery    PromoEffect = "waive_delivery"
)

// Promo is a named discount rule with an eligibility threshold.
type Promo struct {
	Code             string      `json:"code"`
	Description      string      `json:"description,omitempty"`
	Kind             PromoKind   `json:"kind"`
	Effect           PromoEffect `json:"effect"`
	Percent          int         `json:"percent,omitempty"`
	AmountCents      int64       `json:"amountCents,omitempty"`
	MinSubtotalCents int64       `json:"minSubtotalCents"`
	ValidUntil       time.Time   `json:"validUntil"`
}

// NormalizeCode canonicalizes a promo code for case-insensitive lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Expired reports whether the promo's validity has passed at now.
func (p Promo) Expired(now time.Time) bool {
	return !p.ValidUntil.IsZero() && now.After(p.ValidUntil)
}

// EligibleFor reports whether the promo applies to the given subtotal.
func (p Promo) EligibleFor(subtotalCents int64) bool {
	return subtotalCents >= p.MinSubtotalCents
}
