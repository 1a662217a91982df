package promo

import (
	"context"
	"errors"
	"io"
	"log"

	"quickbite/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Promo, error) {
	const q = `
SELECT code, COALESCE(description, ''), kind, effect, percent, amount_cents, min_subtotal_cents, valid_until
FROM promos
WHERE code = $1
`
	var p domain.Promo
	err := r.pool.QueryRow(ctx, q, domain.NormalizeCode(code)).Scan(
		&p.Code,
		&p.Description,
		&p.Kind,
		&p.Effect,
		&p.Percent,
		&p.AmountCents,
		&p.MinSubtotalCents,
		&p.ValidUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		r.logger.Printf("promo repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Promo, error) {
	const q = `
SELECT code, COALESCE(description, ''), kind, effect, percent, amount_cents, min_subtotal_cents, valid_until
FROM promos
ORDER BY code ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("promo repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Promo
	for rows.Next() {
		var p domain.Promo
		if err := rows.Scan(
			&p.Code,
			&p.Description,
			&p.Kind,
			&p.Effect,
			&p.Percent,
			&p.AmountCents,
			&p.MinSubtotalCents,
			&p.ValidUntil,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Promo) error {
	const q = `
INSERT INTO promos (code, description, kind, effect, percent, amount_cents, min_subtotal_cents, valid_until)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (code) DO UPDATE SET
    description = EXCLUDED.description,
    kind = EXCLUDED.kind,
    effect = EXCLUDED.effect,
    percent = EXCLUDED.percent,
    amount_cents = EXCLUDED.amount_cents,
    min_subtotal_cents = EXCLUDED.min_subtotal_cents,
    valid_until = EXCLUDED.valid_until
`
	if _, err := r.pool.Exec(ctx, q,
		domain.NormalizeCode(p.Code), p.Description, string(p.Kind), string(p.Effect),
		p.Percent, p.AmountCents, p.MinSubtotalCents, p.ValidUntil,
	); err != nil {
		r.logger.Printf("promo repo: upsert code=%s error=%v", p.Code, err)
		return err
	}
	return nil
}
