package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/models"
)

// Store is the document store view the enricher needs.
type Store interface {
	ListUnenrichedRawProducts(ctx context.Context) ([]models.RawProduct, error)
	InsertEnrichedProduct(ctx context.Context, p *models.EnrichedProduct) (bool, error)
}

// Result holds the results of an enrichment run.
type Result struct {
	Processed int
	Enriched  int
	Skipped   int
	Failed    int
	ByRegion  map[models.Region]int
}

// Enricher derives the score and region of every raw product not yet
// enriched and stores the enriched copy.
type Enricher struct {
	store  Store
	logger *zap.Logger
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store, logger *zap.Logger) *Enricher {
	return &Enricher{store: store, logger: logger}
}

// Enrich builds the enriched document for one raw product.
func Enrich(raw models.RawProduct) models.EnrichedProduct {
	return models.EnrichedProduct{
		RawProductID:           raw.ID,
		RawProductData:         raw.Payload,
		NutriScorePersonalized: float64(ComputeScore(raw.Payload.Grade())),
		RegionClass:            ClassifyRegion(raw.Payload.CountryName()),
	}
}

// EnrichAll processes the pending batch. A record that fails to store is
// logged and counted; the rest of the batch still runs, and the returned
// error wraps apperrors.ErrPartialEnrichment.
func (e *Enricher) EnrichAll(ctx context.Context) (*Result, error) {
	raws, err := e.store.ListUnenrichedRawProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading raw products: %w", err)
	}

	r := &Result{ByRegion: make(map[models.Region]int)}
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		r.Processed++

		doc := Enrich(raw)
		inserted, err := e.store.InsertEnrichedProduct(ctx, &doc)
		if err != nil {
			r.Failed++
			e.logger.Warn("enrichment failed",
				zap.String("raw_product_id", raw.ID),
				zap.Error(err))
			continue
		}
		if !inserted {
			r.Skipped++
			continue
		}
		r.Enriched++
		r.ByRegion[doc.RegionClass]++
	}

	e.logger.Info("enrichment complete",
		zap.Int("processed", r.Processed),
		zap.Int("enriched", r.Enriched),
		zap.Int("skipped", r.Skipped),
		zap.Int("failed", r.Failed))

	if r.Failed > 0 {
		return r, fmt.Errorf("%w: %d of %d records", apperrors.ErrPartialEnrichment, r.Failed, r.Processed)
	}
	return r, nil
}
