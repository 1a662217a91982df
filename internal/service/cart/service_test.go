package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"quickbite/internal/clock"
	"quickbite/internal/domain"
	"quickbite/internal/repository/state"
	"quickbite/internal/session"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type stubCatalog struct {
	promo    *domain.Promo
	err      error
	lastCode string
}

func (s *stubCatalog) GetByCode(_ context.Context, code string) (*domain.Promo, error) {
	s.lastCode = code
	return s.promo, s.err
}

func newService(t *testing.T) (*Service, *session.Store) {
	t.Helper()
	store := session.New(state.NewMemory(), nil)
	svc := New(store, &stubCatalog{}, clock.NewFake(testNow), nil)
	return svc, store
}

func burger(customizations ...string) domain.CartLine {
	return domain.CartLine{
		ItemID:         "burger",
		Name:           "Classic Burger",
		UnitPriceCents: 1299,
		RestaurantID:   "r1",
		RestaurantName: "Burger Barn",
		Customizations: customizations,
	}
}

func TestAddItemMergesOnIdentity(t *testing.T) {
	svc, _ := newService(t)

	out, err := svc.AddItem(burger("no pickles"), false)
	if err != nil || out != OutcomeAdded {
		t.Fatalf("first add: outcome=%q err=%v", out, err)
	}
	out, err = svc.AddItem(burger("no pickles"), false)
	if err != nil || out != OutcomeQuantityUpdated {
		t.Fatalf("second add: outcome=%q err=%v", out, err)
	}

	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddItemDistinctCustomizationsStaySeparate(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.AddItem(burger("no pickles"), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(burger("no pickles", "extra cheese"), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(burger(), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	if n := len(svc.Items()); n != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", n)
	}
	if svc.ItemCount() != 3 {
		t.Fatalf("expected item count 3, got %d", svc.ItemCount())
	}
}

func TestAddItemCustomizationOrderMatters(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.AddItem(burger("a", "b"), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(burger("b", "a"), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if n := len(svc.Items()); n != 2 {
		t.Fatalf("customization order must be significant, got %d lines", n)
	}
}

func TestAddItemCrossRestaurantConflict(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.AddItem(burger(), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	pizza := domain.CartLine{
		ItemID:         "pizza",
		Name:           "Margherita",
		UnitPriceCents: 1599,
		RestaurantID:   "r2",
		RestaurantName: "Pizza Palace",
	}
	_, err := svc.AddItem(pizza, false)
	var conflict *domain.CrossRestaurantError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected CrossRestaurantError, got %v", err)
	}
	if conflict.CurrentRestaurant != "r1" || conflict.IncomingRestaurant != "r2" {
		t.Fatalf("unexpected conflict details: %+v", conflict)
	}

	// The cart must never mix restaurants.
	for _, l := range svc.Items() {
		if l.RestaurantID != "r1" {
			t.Fatalf("cart mixed restaurants: %+v", l)
		}
	}

	// Explicit replace discards the old cart.
	out, err := svc.AddItem(pizza, true)
	if err != nil || out != OutcomeAdded {
		t.Fatalf("replace add: outcome=%q err=%v", out, err)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].RestaurantID != "r2" {
		t.Fatalf("expected replaced cart, got %+v", items)
	}
}

func TestReorderBatchConflictEvaluatedOnce(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.AddItem(burger(), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	batch := []domain.CartLine{
		{ItemID: "pizza", UnitPriceCents: 1599, Quantity: 1, RestaurantID: "r2"},
		{ItemID: "cola", UnitPriceCents: 299, Quantity: 2, RestaurantID: "r2"},
	}
	var conflict *domain.CrossRestaurantError
	if err := svc.Reorder(batch, false); !errors.As(err, &conflict) {
		t.Fatalf("expected CrossRestaurantError, got %v", err)
	}
	if len(svc.Items()) != 1 {
		t.Fatalf("conflicting reorder must leave cart untouched")
	}

	if err := svc.Reorder(batch, true); err != nil {
		t.Fatalf("reorder with replace: %v", err)
	}
	if len(svc.Items()) != 2 || svc.ItemCount() != 3 {
		t.Fatalf("unexpected cart after reorder: %+v", svc.Items())
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.AddItem(burger("no pickles"), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	key := svc.Items()[0].Key()

	if _, err := svc.UpdateQuantity(key, -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	out, err := svc.UpdateQuantity(key, 5)
	if err != nil || out != OutcomeQuantityUpdated {
		t.Fatalf("update: outcome=%q err=%v", out, err)
	}
	if svc.Items()[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", svc.Items()[0].Quantity)
	}

	out, err = svc.UpdateQuantity(key, 0)
	if err != nil || out != OutcomeRemoved {
		t.Fatalf("remove: outcome=%q err=%v", out, err)
	}
	if len(svc.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}

	if _, err := svc.UpdateQuantity("missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearDropsPromo(t *testing.T) {
	svc, store := newService(t)
	if _, err := svc.AddItem(burger(), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	store.SetActivePromo(&domain.Promo{Code: "SAVE10"})

	svc.Clear()
	if len(svc.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
	if store.ActivePromo() != nil {
		t.Fatalf("expected promo dropped with cart")
	}
}

func TestApplyPromoNotFound(t *testing.T) {
	store := session.New(state.NewMemory(), nil)
	svc := New(store, &stubCatalog{err: domain.ErrPromoNotFound}, clock.NewFake(testNow), nil)

	_, err := svc.ApplyPromo(context.Background(), "NOPE")
	if !errors.Is(err, domain.ErrPromoNotFound) {
		t.Fatalf("expected ErrPromoNotFound, got %v", err)
	}
	if store.ActivePromo() != nil {
		t.Fatalf("failed apply must not change promo state")
	}
}

func TestApplyPromoIneligibleLeavesStateUnchanged(t *testing.T) {
	store := session.New(state.NewMemory(), nil)
	existing := &domain.Promo{Code: "KEEPME", Kind: domain.PromoPercentage, Effect: domain.EffectSubtractSubtotal, Percent: 5}
	store.SetActivePromo(existing)

	catalog := &stubCatalog{promo: &domain.Promo{
		Code:             "SAVE10",
		Kind:             domain.PromoPercentage,
		Effect:           domain.EffectSubtractSubtotal,
		Percent:          10,
		MinSubtotalCents: 2500,
	}}
	svc := New(store, catalog, clock.NewFake(testNow), nil)
	if _, err := svc.AddItem(burger(), false); err != nil { // subtotal 12.99 < 25.00
		t.Fatalf("add: %v", err)
	}

	_, err := svc.ApplyPromo(context.Background(), "SAVE10")
	if !errors.Is(err, domain.ErrPromoIneligible) {
		t.Fatalf("expected ErrPromoIneligible, got %v", err)
	}
	if got := store.ActivePromo(); got == nil || got.Code != "KEEPME" {
		t.Fatalf("existing promo must be unchanged, got %+v", got)
	}
}

func TestApplyPromoReplacesExisting(t *testing.T) {
	store := session.New(state.NewMemory(), nil)
	store.SetActivePromo(&domain.Promo{Code: "OLD", Kind: domain.PromoPercentage, Effect: domain.EffectSubtractSubtotal, Percent: 5})

	catalog := &stubCatalog{promo: &domain.Promo{
		Code:    "SAVE10",
		Kind:    domain.PromoPercentage,
		Effect:  domain.EffectSubtractSubtotal,
		Percent: 10,
	}}
	svc := New(store, catalog, clock.NewFake(testNow), nil)
	if _, err := svc.AddItem(burger(), false); err != nil {
		t.Fatalf("add: %v", err)
	}

	totals, err := svc.ApplyPromo(context.Background(), "save10")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if totals.DiscountCents != 130 { // round(1299 * 0.10)
		t.Fatalf("unexpected discount: %d", totals.DiscountCents)
	}
	if got := store.ActivePromo(); got == nil || got.Code != "SAVE10" {
		t.Fatalf("expected SAVE10 active, got %+v", got)
	}
}
