package normalize

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/models"
	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

// Source supplies the enriched documents to load. The loader closes it
// after a successful load.
type Source interface {
	ListEnrichedProducts(ctx context.Context) ([]models.EnrichedProduct, error)
	Close() error
}

// Target is the relational store being refreshed.
type Target interface {
	BeginLoad(ctx context.Context) (*warehouse.LoadTx, error)
}

var validScores = map[int]bool{0: true, 10: true, 20: true, 30: true, 40: true}

// Loader replaces the warehouse contents with the enriched documents.
type Loader struct {
	source Source
	target Target
	logger *zap.Logger
}

// NewLoader creates a new loader.
func NewLoader(source Source, target Target, logger *zap.Logger) *Loader {
	return &Loader{source: source, target: target, logger: logger}
}

// Load runs one full refresh and returns the number of fact rows written.
// The delete and the reload share one transaction: on any error nothing
// is committed and readers keep the previous contents.
func (l *Loader) Load(ctx context.Context) (int, error) {
	docs, err := l.source.ListEnrichedProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading enriched products: %w", err)
	}

	tx, err := l.target.BeginLoad(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := tx.Reset(ctx); err != nil {
		return 0, err
	}

	written := 0
	for _, doc := range docs {
		inserted, err := loadOne(ctx, tx, doc)
		if err != nil {
			l.logger.Error("load aborted",
				zap.String("source_id", doc.ID),
				zap.Error(err))
			return 0, fmt.Errorf("loading %s: %w", doc.ID, err)
		}
		if inserted {
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	l.logger.Info("load complete",
		zap.Int("documents", len(docs)),
		zap.Int("products", written))

	if err := l.source.Close(); err != nil {
		l.logger.Warn("closing document store", zap.Error(err))
	}
	return written, nil
}

func loadOne(ctx context.Context, tx *warehouse.LoadTx, doc models.EnrichedProduct) (bool, error) {
	data := doc.RawProductData

	category := ClassifyCategory(data.CategoryText(), data.Name())
	if strings.TrimSpace(category) == "" {
		return false, &apperrors.ValidationError{Field: "category", Reason: "empty label"}
	}

	score := storedScore(doc.NutriScorePersonalized)
	if !validScores[score] || float64(score) != finiteOrZero(doc.NutriScorePersonalized) {
		return false, &apperrors.ValidationError{
			Field:  "nutri_score_personalized",
			Reason: fmt.Sprintf("%v is not one of 0, 10, 20, 30, 40", doc.NutriScorePersonalized),
		}
	}

	p := warehouse.Product{
		SourceID: doc.ID,
		Name:     data.Name(),
		Code:     data.Barcode(),
		ImageURL: data.Image(),
	}

	if brand := data.Brand(); brand != "" {
		id, err := tx.BrandID(ctx, brand)
		if err != nil {
			return false, err
		}
		p.BrandID = &id
	}

	var err error
	if p.CategoryID, err = tx.CategoryID(ctx, category); err != nil {
		return false, err
	}
	if p.NutriScoreID, err = tx.NutriScoreID(ctx, score); err != nil {
		return false, err
	}

	if region := strings.TrimSpace(string(doc.RegionClass)); region != "" {
		id, err := tx.RegionID(ctx, region)
		if err != nil {
			return false, err
		}
		p.RegionID = &id
	}

	n := data.Nutrients()
	p.Calories = n.Energy.Ptr()
	p.Fat = n.Fat.Ptr()
	p.Sugar = n.Sugars.Ptr()
	p.Salt = n.Salt.Ptr()

	return tx.InsertProduct(ctx, p)
}

// storedScore applies the default of 0 to a missing or non-finite score.
func storedScore(v float64) int {
	return int(finiteOrZero(v))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
