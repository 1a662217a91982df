package domain

// Totals is the derived price breakdown of a cart or order. It is
// computed, never stored incrementally.
type Totals struct {
	SubtotalCents    int64  `json:"subtotalCents"`
	DeliveryFeeCents int64  `json:"deliveryFeeCents"`
	TaxCents         int64  `json:"taxCents"`
	DiscountCents    int64  `json:"discountCents"`
	TotalCents       int64  `json:"totalCents"`
	PromoCode        string `json:"promoCode,omitempty"`
}
