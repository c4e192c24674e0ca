package warehouse

import (
	"database/sql"

	"github.com/TobiSchelling/foodpipe/internal/sqlitedb"
)

var migrations = []sqlitedb.Migration{
	{
		Version:     1,
		Description: "star schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS brands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS nutriscores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    score INTEGER UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS regions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    code TEXT,
    image_url TEXT,
    brand_id INTEGER REFERENCES brands(id),
    category_id INTEGER NOT NULL REFERENCES categories(id),
    nutriscore_id INTEGER NOT NULL REFERENCES nutriscores(id),
    region_id INTEGER REFERENCES regions(id),
    calories REAL,
    fat REAL,
    sugar REAL,
    salt REAL,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_products_brand_id ON products(brand_id);
CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_nutriscore_id ON products(nutriscore_id);
CREATE INDEX IF NOT EXISTS idx_products_region_id ON products(region_id);
`)
			return err
		},
	},
}
