package cart

import (
	"context"
	"io"
	"log"
	"strings"

	"quickbite/internal/clock"
	"quickbite/internal/domain"
	"quickbite/internal/pricing"
	"quickbite/internal/session"
)

// Outcome reports what an aggregation operation did, so the UI can
// phrase its feedback.
type Outcome string

const (
	OutcomeAdded           Outcome = "added"
	OutcomeQuantityUpdated Outcome = "quantity updated"
	OutcomeRemoved         Outcome = "removed"
)

type promoCatalog interface {
	GetByCode(ctx context.Context, code string) (*domain.Promo, error)
}

// Service is the cart aggregator: it owns add/merge/update/remove/clear
// semantics over the session cart, plus promo application. Lines are
// keyed by item identity and exact customization sequence; quantities
// merge on identity conflict, restaurants never mix silently.
type Service struct {
	store   *session.Store
	catalog promoCatalog
	engine  pricing.Engine
	clk     clock.Clock
	logger  *log.Logger
}

func New(store *session.Store, catalog promoCatalog, clk clock.Clock, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, catalog: catalog, engine: pricing.New(), clk: clk, logger: logger}
}

// Items returns the cart lines in insertion order.
func (s *Service) Items() []domain.CartLine {
	return s.store.Cart().Lines
}

// ItemCount is the sum of quantities across lines.
func (s *Service) ItemCount() int {
	return s.store.Cart().ItemCount()
}

// SubtotalCents is the pre-fee, pre-tax cart value.
func (s *Service) SubtotalCents() int64 {
	return s.store.Cart().SubtotalCents()
}

// AddItem merges the line into the cart. A matching identity key
// increments quantity; otherwise the line is appended. Adding from a
// different restaurant than the current cart is a conflict: without
// replace the cart is left untouched and a *domain.CrossRestaurantError
// is returned for the UI to resolve; with replace the existing cart is
// discarded first.
func (s *Service) AddItem(item domain.CartLine, replace bool) (Outcome, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	outcome := OutcomeAdded
	err := s.store.MutateCart(func(c *domain.Cart) error {
		if err := resolveRestaurant(c, item, replace); err != nil {
			return err
		}
		outcome = mergeLine(c, item)
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// Reorder adds all lines of a past order. The restaurant conflict is
// evaluated once for the whole batch, not per line.
func (s *Service) Reorder(lines []domain.CartLine, replace bool) error {
	if len(lines) == 0 {
		return nil
	}
	return s.store.MutateCart(func(c *domain.Cart) error {
		if err := resolveRestaurant(c, lines[0], replace); err != nil {
			return err
		}
		for _, l := range lines {
			if l.Quantity <= 0 {
				l.Quantity = 1
			}
			mergeLine(c, l)
		}
		return nil
	})
}

// UpdateQuantity sets the quantity of the line with the given identity
// key. Zero removes the line; negative values are rejected.
func (s *Service) UpdateQuantity(key string, quantity int) (Outcome, error) {
	if quantity < 0 {
		return "", domain.ErrInvalidQuantity
	}
	outcome := OutcomeQuantityUpdated
	err := s.store.MutateCart(func(c *domain.Cart) error {
		for i := range c.Lines {
			if c.Lines[i].Key() != key {
				continue
			}
			if quantity == 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				outcome = OutcomeRemoved
			} else {
				c.Lines[i].Quantity = quantity
			}
			return nil
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// Clear empties the cart and drops the active promo. The destructive-
// action confirmation lives at the UI edge.
func (s *Service) Clear() {
	s.store.SetCart(domain.Cart{})
	s.store.SetActivePromo(nil)
}

// ApplyPromo resolves the code through the catalog and, when eligible
// for the current subtotal, makes it the active promo (replacing any
// previous one, never stacking). An unknown or ineligible code leaves
// the existing promo state unchanged.
func (s *Service) ApplyPromo(ctx context.Context, code string) (domain.Totals, error) {
	promo, err := s.catalog.GetByCode(ctx, code)
	if err != nil {
		return domain.Totals{}, err
	}
	totals, err := s.engine.Compute(s.store.Cart().Lines, promo, s.clk.Now())
	if err != nil {
		return domain.Totals{}, err
	}
	s.store.SetActivePromo(promo)
	s.logger.Printf("cart: promo %s applied", promo.Code)
	return totals, nil
}

// RemovePromo drops the active promo.
func (s *Service) RemovePromo() {
	s.store.SetActivePromo(nil)
}

// Totals prices the current cart with the active promo. If the cart has
// shrunk below the promo's minimum since application, the promo-less
// totals are returned together with domain.ErrPromoIneligible so the
// caller can tell the user rather than silently dropping the discount.
func (s *Service) Totals() (domain.Totals, error) {
	return s.engine.Compute(s.store.Cart().Lines, s.store.ActivePromo(), s.clk.Now())
}

// resolveRestaurant enforces single-restaurant carts. With replace the
// cart is emptied so the incoming restaurant takes over.
func resolveRestaurant(c *domain.Cart, incoming domain.CartLine, replace bool) error {
	current := c.RestaurantID()
	if current == "" || current == incoming.RestaurantID {
		return nil
	}
	if !replace {
		return &domain.CrossRestaurantError{
			CurrentRestaurant:  current,
			CurrentName:        c.RestaurantName(),
			IncomingRestaurant: incoming.RestaurantID,
			IncomingName:       incoming.RestaurantName,
		}
	}
	c.Lines = nil
	return nil
}

// mergeLine merges by identity key or appends.
func mergeLine(c *domain.Cart, item domain.CartLine) Outcome {
	key := item.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += item.Quantity
			return OutcomeQuantityUpdated
		}
	}
	item.Name = strings.TrimSpace(item.Name)
	c.Lines = append(c.Lines, item)
	return OutcomeAdded
}
