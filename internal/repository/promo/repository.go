package promo

import (
	"context"

	"quickbite/internal/domain"
)

// Repository is the promo catalog. Codes are matched case-insensitively;
// unknown codes yield domain.ErrPromoNotFound.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.Promo, error)
	List(ctx context.Context) ([]domain.Promo, error)
	Upsert(ctx context.Context, promo domain.Promo) error
}
