// Package docstore keeps the raw catalog payloads and their enriched copies
// as JSON documents in a SQLite file.
package docstore

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/sqlitedb"
)

// Store wraps the document database connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates or opens the document database at the given path.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	conn, err := sqlitedb.Open(dbPath, migrations, logger)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn, path: dbPath}, nil
}

// Close closes the database connection. Closing twice is harmless.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
