package seed

import (
	"context"
	"fmt"

	promorepo "quickbite/internal/repository/promo"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts the built-in promo catalog. Idempotent: existing codes
// are updated in place.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := promorepo.NewPostgres(pool, nil)
	for _, p := range promorepo.Defaults() {
		if err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert promo %s: %w", p.Code, err)
		}
	}
	return nil
}
