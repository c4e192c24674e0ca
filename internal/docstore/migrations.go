package docstore

import (
	"database/sql"

	"github.com/TobiSchelling/foodpipe/internal/sqlitedb"
)

var migrations = []sqlitedb.Migration{
	{
		Version:     1,
		Description: "raw and enriched product collections",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS raw_products (
    id TEXT PRIMARY KEY,
    code TEXT,
    payload TEXT NOT NULL,
    collected_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS enriched_products (
    id TEXT PRIMARY KEY,
    raw_product_id TEXT UNIQUE NOT NULL REFERENCES raw_products(id),
    raw_product_data TEXT NOT NULL,
    nutri_score_personalized REAL,
    region_class TEXT NOT NULL CHECK(region_class IN ('Europe', 'Non-Europe')),
    enriched_at TEXT DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_raw_products_code
    ON raw_products(code) WHERE code IS NOT NULL;
`)
			return err
		},
	},
}
