package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/models"
)

// Counts summarizes the two collections.
type Counts struct {
	Raw        int
	Enriched   int
	Unenriched int
}

// InsertRawProduct stores one catalog payload under a fresh id. Returns the
// id on success, "" if a raw product with the same code already exists.
func (s *Store) InsertRawProduct(ctx context.Context, payload models.Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	id := uuid.NewString()
	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO raw_products (id, code, payload) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		id, payload.Barcode(), string(data),
	)
	if err != nil {
		return "", &apperrors.StorageError{Op: "insert raw product", Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", &apperrors.StorageError{Op: "insert raw product", Err: err}
	}
	if n == 0 {
		return "", nil
	}
	return id, nil
}

// ListUnenrichedRawProducts returns raw products that have no enriched
// document yet.
func (s *Store) ListUnenrichedRawProducts(ctx context.Context) ([]models.RawProduct, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT r.id, r.payload, r.collected_at
		FROM raw_products r LEFT JOIN enriched_products e ON r.id = e.raw_product_id
		WHERE e.raw_product_id IS NULL
		ORDER BY r.collected_at, r.rowid`)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "list unenriched products", Err: err}
	}
	defer rows.Close()
	return scanRawProducts(rows)
}

// InsertEnrichedProduct stores p, assigning an id when p.ID is empty.
// Returns false without error when p.RawProductID is already enriched.
func (s *Store) InsertEnrichedProduct(ctx context.Context, p *models.EnrichedProduct) (bool, error) {
	if !p.RegionClass.Valid() {
		return false, &apperrors.ValidationError{Field: "region_class", Reason: fmt.Sprintf("unknown region %q", p.RegionClass)}
	}
	data, err := json.Marshal(p.RawProductData)
	if err != nil {
		return false, fmt.Errorf("encoding payload: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO enriched_products (id, raw_product_id, raw_product_data, nutri_score_personalized, region_class)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(raw_product_id) DO NOTHING`,
		p.ID, p.RawProductID, string(data), p.NutriScorePersonalized, string(p.RegionClass),
	)
	if err != nil {
		return false, &apperrors.StorageError{Op: "insert enriched product", Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, &apperrors.StorageError{Op: "insert enriched product", Err: err}
	}
	return n > 0, nil
}

// ListEnrichedProducts returns every enriched product in enrichment order.
// A NULL score reads back as NaN so the loader can apply its default.
func (s *Store) ListEnrichedProducts(ctx context.Context) ([]models.EnrichedProduct, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, raw_product_id, raw_product_data, nutri_score_personalized, region_class, enriched_at
		FROM enriched_products ORDER BY enriched_at, rowid`)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "list enriched products", Err: err}
	}
	defer rows.Close()

	var products []models.EnrichedProduct
	for rows.Next() {
		var p models.EnrichedProduct
		var data, region string
		var score sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.RawProductID, &data, &score, &region, &p.EnrichedAt); err != nil {
			return nil, &apperrors.StorageError{Op: "scan enriched product", Err: err}
		}
		if err := json.Unmarshal([]byte(data), &p.RawProductData); err != nil {
			return nil, fmt.Errorf("decoding enriched product %s: %w", p.ID, err)
		}
		p.NutriScorePersonalized = nullScore(score)
		p.RegionClass = models.Region(region)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "list enriched products", Err: err}
	}
	return products, nil
}

// Counts returns the size of both collections.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.conn.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM raw_products),
			(SELECT COUNT(*) FROM enriched_products),
			(SELECT COUNT(*) FROM raw_products r
				LEFT JOIN enriched_products e ON r.id = e.raw_product_id
				WHERE e.raw_product_id IS NULL)`,
	).Scan(&c.Raw, &c.Enriched, &c.Unenriched)
	if err != nil {
		return Counts{}, &apperrors.StorageError{Op: "count documents", Err: err}
	}
	return c, nil
}

func scanRawProducts(rows *sql.Rows) ([]models.RawProduct, error) {
	var products []models.RawProduct
	for rows.Next() {
		var p models.RawProduct
		var data string
		if err := rows.Scan(&p.ID, &data, &p.CollectedAt); err != nil {
			return nil, &apperrors.StorageError{Op: "scan raw product", Err: err}
		}
		if err := json.Unmarshal([]byte(data), &p.Payload); err != nil {
			return nil, fmt.Errorf("decoding raw product %s: %w", p.ID, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "list raw products", Err: err}
	}
	return products, nil
}

func nullScore(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
