package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
)

// LoadTx is a full-refresh load in progress. Nothing it writes is visible
// to readers until Commit.
type LoadTx struct {
	tx *sql.Tx
}

// BeginLoad starts a load transaction.
func (w *Warehouse) BeginLoad(ctx context.Context) (*LoadTx, error) {
	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "begin load", Err: err}
	}
	return &LoadTx{tx: tx}, nil
}

// Reset deletes every fact row and then every dimension row.
func (l *LoadTx) Reset(ctx context.Context) error {
	for _, table := range []string{"products", "brands", "categories", "nutriscores", "regions"} {
		if _, err := l.tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return &apperrors.StorageError{Op: "clear " + table, Err: err}
		}
	}
	return nil
}

// BrandID returns the id of the named brand, creating it if absent.
func (l *LoadTx) BrandID(ctx context.Context, name string) (int64, error) {
	return l.getOrCreate(ctx, "brands", "name", name)
}

// CategoryID returns the id of the named category, creating it if absent.
func (l *LoadTx) CategoryID(ctx context.Context, name string) (int64, error) {
	return l.getOrCreate(ctx, "categories", "name", name)
}

// NutriScoreID returns the id of the score row, creating it if absent.
func (l *LoadTx) NutriScoreID(ctx context.Context, score int) (int64, error) {
	return l.getOrCreate(ctx, "nutriscores", "score", score)
}

// RegionID returns the id of the labelled region, creating it if absent.
func (l *LoadTx) RegionID(ctx context.Context, label string) (int64, error) {
	return l.getOrCreate(ctx, "regions", "label", label)
}

// getOrCreate inserts the natural key if absent, then selects its id.
// Single-writer only: concurrent loaders would need an upsert returning the id.
func (l *LoadTx) getOrCreate(ctx context.Context, table, column string, value any) (int64, error) {
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?) ON CONFLICT(%s) DO NOTHING", table, column, column)
	if _, err := l.tx.ExecContext(ctx, insert, value); err != nil {
		return 0, &apperrors.StorageError{Op: "insert " + table, Err: err}
	}

	var id int64
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", table, column)
	if err := l.tx.QueryRowContext(ctx, query, value).Scan(&id); err != nil {
		return 0, &apperrors.StorageError{Op: "select " + table, Err: err}
	}
	return id, nil
}

// InsertProduct writes one fact row. Returns false if a row with the same
// source id already exists.
func (l *LoadTx) InsertProduct(ctx context.Context, p Product) (bool, error) {
	result, err := l.tx.ExecContext(ctx,
		`INSERT INTO products (
			source_id, name, code, image_url,
			brand_id, category_id, nutriscore_id, region_id,
			calories, fat, sugar, salt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO NOTHING`,
		p.SourceID, p.Name, p.Code, p.ImageURL,
		p.BrandID, p.CategoryID, p.NutriScoreID, p.RegionID,
		p.Calories, p.Fat, p.Sugar, p.Salt,
	)
	if err != nil {
		return false, &apperrors.StorageError{Op: "insert product", Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, &apperrors.StorageError{Op: "insert product", Err: err}
	}
	return n > 0, nil
}

// Commit publishes the load.
func (l *LoadTx) Commit() error {
	if err := l.tx.Commit(); err != nil {
		return &apperrors.StorageError{Op: "commit load", Err: err}
	}
	return nil
}

// Rollback abandons the load. Safe to call after Commit.
func (l *LoadTx) Rollback() error {
	err := l.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return &apperrors.StorageError{Op: "rollback load", Err: err}
}
