// Package warehouse is the normalized relational store: a products fact
// table referencing the brands, categories, nutriscores and regions
// dimension tables.
package warehouse

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/sqlitedb"
)

// Warehouse wraps the relational store connection.
type Warehouse struct {
	conn *sql.DB
	path string
}

// Open creates or opens the warehouse at the given path.
func Open(dbPath string, logger *zap.Logger) (*Warehouse, error) {
	conn, err := sqlitedb.Open(dbPath, migrations, logger)
	if err != nil {
		return nil, err
	}
	return &Warehouse{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (w *Warehouse) Close() error {
	return w.conn.Close()
}

// Path returns the database file path.
func (w *Warehouse) Path() string {
	return w.path
}
