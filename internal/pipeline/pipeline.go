package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/collect"
	"github.com/TobiSchelling/foodpipe/internal/docstore"
	"github.com/TobiSchelling/foodpipe/internal/enrich"
	"github.com/TobiSchelling/foodpipe/internal/models"
	"github.com/TobiSchelling/foodpipe/internal/normalize"
	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Failed reports whether any step returned an error.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Pipeline runs Collect, Enrich and Load in sequence.
type Pipeline struct {
	fetcher   collect.Fetcher
	docs      *docstore.Store
	warehouse *warehouse.Warehouse
	logger    *zap.Logger
}

// New creates a new pipeline.
func New(fetcher collect.Fetcher, docs *docstore.Store, wh *warehouse.Warehouse, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		docs:      docs,
		warehouse: wh,
		logger:    logger,
	}
}

// Run executes the full pipeline. A collect failure stops the run; a
// partial enrichment is recorded and the load still runs, leaving the
// failed records for the next run.
func (p *Pipeline) Run(ctx context.Context, opts collect.Options) *Result {
	r := &Result{}

	// Step 1: Collect
	step := p.RunCollect(ctx, opts)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 2: Enrich
	step = p.RunEnrich(ctx)
	r.Steps = append(r.Steps, step)
	if step.Err != nil && !errors.Is(step.Err, apperrors.ErrPartialEnrichment) {
		return r
	}

	// Step 3: Load
	step = p.RunLoad(ctx)
	r.Steps = append(r.Steps, step)

	return r
}

// DryRun shows what would be done without executing.
func (p *Pipeline) DryRun(ctx context.Context, opts collect.Options) *Result {
	r := &Result{}

	r.Steps = append(r.Steps, StepResult{
		Name: "Collect",
		Summary: fmt.Sprintf("[dry-run] Would fetch %d page(s) of %d products starting at page %d",
			opts.Pages, opts.PageSize, opts.StartPage),
	})

	counts, err := p.docs.Counts(ctx)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Enrich", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name: "Enrich",
		Summary: fmt.Sprintf("[dry-run] %d raw products, %d need enrichment",
			counts.Raw, counts.Unenriched),
	})

	current, err := p.warehouse.CountProducts(ctx)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Load", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name: "Load",
		Summary: fmt.Sprintf("[dry-run] Would replace %d products with %d enriched documents",
			current, counts.Enriched),
	})

	return r
}

// RunCollect runs the collect step alone.
func (p *Pipeline) RunCollect(ctx context.Context, opts collect.Options) StepResult {
	p.logger.Info("Step 1/3: Collecting products...")
	collector := collect.NewCollector(p.fetcher, p.docs, p.logger.Named("collect"))
	result, err := collector.Collect(ctx, opts)
	if err != nil {
		return StepResult{Name: "Collect", Err: err, Summary: collectSummary(result)}
	}
	return StepResult{Name: "Collect", Summary: collectSummary(result)}
}

// RunEnrich runs the enrich step alone.
func (p *Pipeline) RunEnrich(ctx context.Context) StepResult {
	p.logger.Info("Step 2/3: Enriching products...")
	enricher := enrich.NewEnricher(p.docs, p.logger.Named("enrich"))
	result, err := enricher.EnrichAll(ctx)
	step := StepResult{Name: "Enrich", Err: err}
	if result != nil {
		step.Summary = fmt.Sprintf("Enriched %d products (%d Europe, %d Non-Europe), %d skipped, %d failed",
			result.Enriched,
			result.ByRegion[models.RegionEurope],
			result.ByRegion[models.RegionNonEurope],
			result.Skipped,
			result.Failed)
	}
	return step
}

// RunLoad runs the load step alone.
func (p *Pipeline) RunLoad(ctx context.Context) StepResult {
	p.logger.Info("Step 3/3: Loading warehouse...")
	loader := normalize.NewLoader(p.docs, p.warehouse, p.logger.Named("load"))
	n, err := loader.Load(ctx)
	if err != nil {
		return StepResult{Name: "Load", Err: err}
	}
	return StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("Loaded %d products", n),
	}
}

func collectSummary(r *collect.Result) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("Found %d new products (%d total, %d duplicates) over %d page(s)",
		r.NewProducts, r.TotalFound, r.Duplicates, r.Pages)
}
