package domain

import "strings"

// CartLine is one orderable entry in the cart. Two lines are the same
// line iff the item id matches and the customization sequences are
// element-wise equal.
type CartLine struct {
	ItemID         string   `json:"itemId"`
	Name           string   `json:"name"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	Quantity       int      `json:"quantity"`
	RestaurantID   string   `json:"restaurantId"`
	RestaurantName string   `json:"restaurantName,omitempty"`
	Customizations []string `json:"customizations,omitempty"`
}

// TotalCents is the line total at the current quantity.
func (l CartLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Key returns the canonical identity key for the line. The key is the
// item id joined with the customization sequence in order; it is not
// meant to be parsed, only compared.
func (l CartLine) Key() string {
	if len(l.Customizations) == 0 {
		return l.ItemID
	}
	return l.ItemID + "|" + strings.Join(l.Customizations, "|")
}

// Cart is an ordered collection of lines, implicitly scoped to a single
// restaurant: every line shares one RestaurantID unless the cart is empty.
type Cart struct {
	Lines []CartLine `json:"lines,omitempty"`
}

// RestaurantID reports the restaurant the cart is scoped to, or "" when
// the cart is empty.
func (c Cart) RestaurantID() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0].RestaurantID
}

// RestaurantName reports the display name of the cart's restaurant.
func (c Cart) RestaurantName() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0].RestaurantName
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// SubtotalCents is the sum of line totals.
func (c Cart) SubtotalCents() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.TotalCents()
	}
	return sum
}

// Clone returns a deep copy so order snapshots never alias live cart lines.
func (c Cart) Clone() Cart {
	return Cart{Lines: CloneLines(c.Lines)}
}

// CloneLines deep-copies a slice of cart lines.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	for i := range out {
		if lines[i].Customizations != nil {
			out[i].Customizations = append([]string(nil), lines[i].Customizations...)
		}
	}
	return out
}
