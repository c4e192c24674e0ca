package collect

import (
	"context"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/models"
)

// Fetcher returns one page of catalog products.
type Fetcher interface {
	Fetch(ctx context.Context, page, pageSize int) ([]models.Payload, error)
}

// RawStore persists raw catalog payloads.
type RawStore interface {
	InsertRawProduct(ctx context.Context, payload models.Payload) (string, error)
}

// Options selects which pages to collect.
type Options struct {
	StartPage int
	Pages     int
	PageSize  int
}

// Result holds the results of a collection run.
type Result struct {
	Pages       int
	TotalFound  int
	NewProducts int
	Duplicates  int
}

// Collector pages through the catalog and stores every payload.
type Collector struct {
	fetcher Fetcher
	store   RawStore
	logger  *zap.Logger
}

// NewCollector creates a new product collector.
func NewCollector(fetcher Fetcher, store RawStore, logger *zap.Logger) *Collector {
	return &Collector{fetcher: fetcher, store: store, logger: logger}
}

// Collect fetches opts.Pages pages starting at opts.StartPage and persists
// each product. An empty page ends collection early. On error the result
// covers the pages already stored.
func (c *Collector) Collect(ctx context.Context, opts Options) (*Result, error) {
	r := &Result{}
	start := opts.StartPage
	if start < 1 {
		start = 1
	}

	for page := start; page < start+opts.Pages; page++ {
		products, err := c.fetcher.Fetch(ctx, page, opts.PageSize)
		if err != nil {
			c.logger.Error("catalog fetch failed",
				zap.Int("page", page),
				zap.Int("status", apperrors.HTTPStatus(err)),
				zap.Bool("transport", apperrors.IsTransport(err)),
				zap.Error(err))
			return r, err
		}
		r.Pages++
		r.TotalFound += len(products)

		if len(products) == 0 {
			c.logger.Info("empty catalog page, stopping", zap.Int("page", page))
			break
		}

		for _, p := range products {
			id, err := c.store.InsertRawProduct(ctx, p)
			if err != nil {
				return r, err
			}
			if id != "" {
				r.NewProducts++
			} else {
				r.Duplicates++
			}
		}

		c.logger.Debug("stored catalog page",
			zap.Int("page", page),
			zap.Int("products", len(products)))
	}

	c.logger.Info("collection complete",
		zap.Int("pages", r.Pages),
		zap.Int("found", r.TotalFound),
		zap.Int("new", r.NewProducts),
		zap.Int("duplicates", r.Duplicates))
	return r, nil
}
