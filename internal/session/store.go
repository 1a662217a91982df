package session

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"

	"quickbite/internal/domain"
	"quickbite/internal/repository/state"
)

// Store is the single session of record: it exclusively owns the cart,
// the active promo, the order history, and favorites. Every mutation is
// serialized through its lock, then persisted to the gateway as a
// fire-and-forget side effect. Readers always receive copies.
type Store struct {
	mu      sync.Mutex
	gateway state.Gateway
	logger  *log.Logger

	cart      domain.Cart
	promo     *domain.Promo
	orders    []domain.Order // most recent first
	favorites []string
}

// cartState is the persisted shape of the cart plus its active promo.
type cartState struct {
	Lines []domain.CartLine `json:"lines"`
	Promo *domain.Promo     `json:"promo,omitempty"`
}

func New(gateway state.Gateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{gateway: gateway, logger: logger}
}

// Load restores persisted session state. Absent keys fall back to empty
// defaults. Malformed payloads are discarded and reinitialized: the
// session self-heals instead of failing startup.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cs cartState
	if s.loadKey(ctx, state.KeyCart, &cs) {
		s.cart = domain.Cart{Lines: cs.Lines}
		s.promo = cs.Promo
	}
	var orders []domain.Order
	if s.loadKey(ctx, state.KeyOrders, &orders) {
		s.orders = orders
	}
	var favorites []string
	if s.loadKey(ctx, state.KeyFavorites, &favorites) {
		s.favorites = favorites
	}
}

// loadKey decodes one key into out. Returns false when the key is
// absent or corrupt; corrupt payloads are removed so the next run
// starts clean.
func (s *Store) loadKey(ctx context.Context, key string, out interface{}) bool {
	raw, ok, err := s.gateway.Get(ctx, key)
	if err != nil {
		s.logger.Printf("session: load %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Printf("session: %v for key %s, reinitializing: %v", domain.ErrCorruptedState, key, err)
		if err := s.gateway.Remove(ctx, key); err != nil {
			s.logger.Printf("session: remove corrupt %s: %v", key, err)
		}
		return false
	}
	return true
}

// persistKey writes one key best-effort. Persistence failures are
// logged, never surfaced: the in-memory session stays the source of
// truth for its lifetime.
func (s *Store) persistKey(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("session: marshal %s: %v", key, err)
		return
	}
	if err := s.gateway.Set(context.Background(), key, raw); err != nil {
		s.logger.Printf("session: persist %s: %v", key, err)
	}
}

func (s *Store) persistCartLocked() {
	s.persistKey(state.KeyCart, cartState{Lines: s.cart.Lines, Promo: s.promo})
}

func (s *Store) persistOrdersLocked() {
	s.persistKey(state.KeyOrders, s.orders)
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// SetCart replaces the cart wholesale.
func (s *Store) SetCart(c domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c.Clone()
	s.persistCartLocked()
}

// MutateCart applies fn to the cart under the lock. fn returning an
// error leaves the cart untouched.
func (s *Store) MutateCart(fn func(*domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cart.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.cart = next
	s.persistCartLocked()
	return nil
}

// ActivePromo returns the promo currently applied to the cart, if any.
func (s *Store) ActivePromo() *domain.Promo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo == nil {
		return nil
	}
	p := *s.promo
	return &p
}

// SetActivePromo replaces the active promo; applying a new code never
// stacks with the old one.
func (s *Store) SetActivePromo(p *domain.Promo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.promo = nil
	} else {
		cp := *p
		s.promo = &cp
	}
	s.persistCartLocked()
}

// Orders returns copies of all orders, most recent first.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// Order returns a copy of one order.
func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// AppendOrder adds a newly placed order to the front of the history.
func (s *Store) AppendOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]domain.Order{o.Clone()}, s.orders...)
	s.persistOrdersLocked()
}

// UpdateOrder applies fn to the stored order under the lock. fn
// returning an error leaves the order untouched. The updated copy is
// returned.
func (s *Store) UpdateOrder(id string, fn func(*domain.Order) error) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		next := s.orders[i].Clone()
		if err := fn(&next); err != nil {
			return domain.Order{}, err
		}
		s.orders[i] = next
		s.persistOrdersLocked()
		return next.Clone(), nil
	}
	return domain.Order{}, domain.ErrNotFound
}

// FindOrderByRefund returns a copy of the order owning the refund.
func (s *Store) FindOrderByRefund(refundID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Refund != nil && o.Refund.ID == refundID {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// Favorites returns the favorite item ids.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.favorites...)
}

// ToggleFavorite flips membership and reports whether the item is now a
// favorite.
func (s *Store) ToggleFavorite(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.favorites {
		if id == itemID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			s.persistKey(state.KeyFavorites, s.favorites)
			return false
		}
	}
	s.favorites = append(s.favorites, itemID)
	s.persistKey(state.KeyFavorites, s.favorites)
	return true
}

// SetFavorite adds or removes an item explicitly.
func (s *Store) SetFavorite(itemID string, favorite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, id := range s.favorites {
		if id == itemID {
			idx = i
			break
		}
	}
	switch {
	case favorite && idx < 0:
		s.favorites = append(s.favorites, itemID)
	case !favorite && idx >= 0:
		s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
	default:
		return
	}
	s.persistKey(state.KeyFavorites, s.favorites)
}
