package state

import "context"

// Gateway is the opaque durable store for serialized session state.
// Absent keys return (nil, false, nil); callers must tolerate absent or
// malformed payloads by falling back to defaults.
type Gateway interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Well-known session keys.
const (
	KeyCart      = "cart"
	KeyOrders    = "orders"
	KeyFavorites = "favorites"
)
