package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"quickbite/internal/domain"
)

type PromoWriter interface {
	Upsert(ctx context.Context, promo domain.Promo) error
}

// JSONImporter reads a promo catalog export and inserts/updates codes.
type JSONImporter struct {
	reader    io.Reader
	promoRepo PromoWriter
}

func NewJSONImporter(r io.Reader, repo PromoWriter) *JSONImporter {
	return &JSONImporter{reader: r, promoRepo: repo}
}

type promoRow struct {
	Code             string `json:"code"`
	Description      string `json:"description"`
	Kind             string `json:"kind"`
	Effect           string `json:"effect"`
	Percent          int    `json:"percent"`
	AmountCents      int64  `json:"amountCents"`
	MinSubtotalCents int64  `json:"minSubtotalCents"`
	ValidUntil       string `json:"validUntil"`
}

// Run parses the JSON array and upserts each promo.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var rows []promoRow
	if err := json.NewDecoder(i.reader).Decode(&rows); err != nil {
		return 0, fmt.Errorf("decode promos: %w", err)
	}

	imported := 0
	for _, row := range rows {
		promo, err := parseRow(row)
		if err != nil {
			return imported, err
		}
		if err := i.promoRepo.Upsert(ctx, promo); err != nil {
			return imported, fmt.Errorf("upsert promo %s: %w", promo.Code, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(row promoRow) (domain.Promo, error) {
	code := domain.NormalizeCode(row.Code)
	if code == "" {
		return domain.Promo{}, fmt.Errorf("promo row missing code")
	}

	kind := domain.PromoKind(row.Kind)
	if kind != domain.PromoPercentage && kind != domain.PromoFixed {
		return domain.Promo{}, fmt.Errorf("promo %s: unknown kind %q", code, row.Kind)
	}

	effect := domain.PromoEffect(row.Effect)
	if effect == "" {
		effect = domain.EffectSubtractSubtotal
	}
	if effect != domain.EffectSubtractSubtotal && effect != domain.EffectWaiveDelivery {
		return domain.Promo{}, fmt.Errorf("promo %s: unknown effect %q", code, row.Effect)
	}

	if kind == domain.PromoPercentage && (row.Percent <= 0 || row.Percent > 100) {
		return domain.Promo{}, fmt.Errorf("promo %s: percent out of range", code)
	}
	if kind == domain.PromoFixed && effect == domain.EffectSubtractSubtotal && row.AmountCents <= 0 {
		return domain.Promo{}, fmt.Errorf("promo %s: amountCents required", code)
	}

	var validUntil time.Time
	if row.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, row.ValidUntil)
		if err != nil {
			return domain.Promo{}, fmt.Errorf("promo %s: bad validUntil: %w", code, err)
		}
		validUntil = t
	}

	return domain.Promo{
		Code:             code,
		Description:      row.Description,
		Kind:             kind,
		Effect:           effect,
		Percent:          row.Percent,
		AmountCents:      row.AmountCents,
		MinSubtotalCents: row.MinSubtotalCents,
		ValidUntil:       validUntil,
	}, nil
}
