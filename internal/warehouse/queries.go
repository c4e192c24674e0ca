package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
)

const productSelect = `SELECT p.id, p.source_id, p.name, p.code, p.image_url,
	b.name, c.name, n.score, r.label,
	p.calories, p.fat, p.sugar, p.salt, p.created_at
	FROM products p
	LEFT JOIN brands b ON p.brand_id = b.id
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN nutriscores n ON p.nutriscore_id = n.id
	LEFT JOIN regions r ON p.region_id = r.id`

// ListProducts returns one page of products matching f, named products
// first and then by name, along with the total number of matches.
func (w *Warehouse) ListProducts(ctx context.Context, f ProductFilter) ([]ProductView, int, error) {
	var conditions []string
	var args []any

	if f.Name != "" {
		conditions = append(conditions, `p.name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Name))
	}
	if f.NutriScore != nil {
		conditions = append(conditions, "n.score = ?")
		args = append(args, *f.NutriScore)
	}
	if f.Region != "" {
		conditions = append(conditions, "r.label = ?")
		args = append(args, f.Region)
	}
	if f.Category != "" {
		conditions = append(conditions, `c.name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Category))
	}
	if f.Brand != "" {
		conditions = append(conditions, `b.name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Brand))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products p
	LEFT JOIN brands b ON p.brand_id = b.id
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN nutriscores n ON p.nutriscore_id = n.id
	LEFT JOIN regions r ON p.region_id = r.id` + where
	if err := w.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, &apperrors.StorageError{Op: "count products", Err: err}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query := productSelect + where +
		` ORDER BY (CASE WHEN TRIM(p.name) = '' THEN 1 ELSE 0 END), p.name, p.id LIMIT ? OFFSET ?`
	rows, err := w.conn.QueryContext(ctx, query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, &apperrors.StorageError{Op: "list products", Err: err}
	}
	defer rows.Close()

	var products []ProductView
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, &apperrors.StorageError{Op: "scan product", Err: err}
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &apperrors.StorageError{Op: "list products", Err: err}
	}
	return products, total, nil
}

// GetProduct returns a single product by id, or apperrors.ErrNotFound.
func (w *Warehouse) GetProduct(ctx context.Context, id int64) (*ProductView, error) {
	row := w.conn.QueryRowContext(ctx, productSelect+" WHERE p.id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, &apperrors.StorageError{Op: "get product", Err: err}
	}
	return p, nil
}

// CountProducts returns the number of fact rows.
func (w *Warehouse) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := w.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, &apperrors.StorageError{Op: "count products", Err: err}
	}
	return n, nil
}

// GetStats returns aggregate figures over the fact table.
func (w *Warehouse) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}

	var avg sql.NullFloat64
	err := w.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(n.score)
		FROM products p LEFT JOIN nutriscores n ON p.nutriscore_id = n.id`,
	).Scan(&s.TotalProducts, &avg)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "product stats", Err: err}
	}
	if avg.Valid {
		s.AverageNutriScore = &avg.Float64
	}

	s.ByRegion, err = w.groupCount(ctx,
		`SELECT COALESCE(r.label, ''), COUNT(*) FROM products p
		LEFT JOIN regions r ON p.region_id = r.id
		GROUP BY 1 ORDER BY 2 DESC, 1`)
	if err != nil {
		return nil, err
	}

	s.ByCategory, err = w.groupCount(ctx,
		`SELECT c.name, COUNT(*) FROM products p
		JOIN categories c ON p.category_id = c.id
		GROUP BY 1 ORDER BY 2 DESC, 1`)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (w *Warehouse) groupCount(ctx context.Context, query string) ([]LabelCount, error) {
	rows, err := w.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "group products", Err: err}
	}
	defer rows.Close()

	counts := []LabelCount{}
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, &apperrors.StorageError{Op: "scan group", Err: err}
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "group products", Err: err}
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*ProductView, error) {
	var p ProductView
	var score sql.NullInt64
	if err := row.Scan(&p.ID, &p.SourceID, &p.Name, &p.Code, &p.ImageURL,
		&p.Brand, &p.Category, &score, &p.Region,
		&p.Calories, &p.Fat, &p.Sugar, &p.Salt, &p.CreatedAt); err != nil {
		return nil, err
	}
	if score.Valid {
		v := int(score.Int64)
		p.NutriScoreScore = &v
	}
	return &p, nil
}

// likePattern builds a substring LIKE pattern with wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
