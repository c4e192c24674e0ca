package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/collect"
	"github.com/TobiSchelling/foodpipe/internal/config"
	"github.com/TobiSchelling/foodpipe/internal/docstore"
	"github.com/TobiSchelling/foodpipe/internal/logging"
	"github.com/TobiSchelling/foodpipe/internal/pipeline"
	"github.com/TobiSchelling/foodpipe/internal/server"
	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "foodpipe",
	Short:         "Food product ETL pipeline",
	Long:          "foodpipe collects products from Open Food Facts, enriches them and loads them into a star-schema warehouse.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		var err error
		path, resolveErr := config.ResolveConfigPath(configPath)
		switch {
		case resolveErr == nil:
			cfg, err = config.Load(path)
		case configPath == "":
			// No config anywhere: run on built-in defaults.
			cfg, err = config.Default()
		default:
			return resolveErr
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "DEBUG"
		}
		logger, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		if resolveErr != nil {
			logger.Debug("no config file found, using defaults")
		} else {
			logger.Debug("loaded config", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("foodpipe", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/foodpipe/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the catalog pages to collect and the data directory.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show document store and warehouse status",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, wh, err := openStores()
		if err != nil {
			return err
		}
		defer docs.Close()
		defer wh.Close()

		ctx := cmd.Context()
		counts, err := docs.Counts(ctx)
		if err != nil {
			return fmt.Errorf("counting documents: %w", err)
		}
		stats, err := wh.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Documents:", docs.Path())
		fmt.Printf("  Raw products: %d\n", counts.Raw)
		fmt.Printf("  Enriched: %d\n", counts.Enriched)
		fmt.Printf("  Awaiting enrichment: %d\n", counts.Unenriched)
		fmt.Println("\nWarehouse:", wh.Path())
		fmt.Printf("  Products: %d\n", stats.TotalProducts)
		if stats.AverageNutriScore != nil {
			fmt.Printf("  Average Nutri-Score: %.1f\n", *stats.AverageNutriScore)
		}
		for _, lc := range stats.ByCategory {
			fmt.Printf("  %s: %d\n", lc.Label, lc.Count)
		}
		return nil
	},
}

// --- pipeline steps ---

var (
	dryRun    bool
	pages     int
	pageSize  int
	startPage int
)

func addCollectFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&pages, "pages", 0, "Number of catalog pages to fetch (default from config)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Products per page (default from config)")
	cmd.Flags().IntVar(&startPage, "start-page", 0, "First page to fetch (default from config)")
}

func collectOptions() collect.Options {
	opts := collect.Options{
		StartPage: cfg.Catalog.StartPage,
		Pages:     cfg.Catalog.Pages,
		PageSize:  cfg.Catalog.PageSize,
	}
	if pages > 0 {
		opts.Pages = pages
	}
	if pageSize > 0 {
		opts.PageSize = pageSize
	}
	if startPage > 0 {
		opts.StartPage = startPage
	}
	return opts
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect products from the catalog into the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) pipeline.StepResult {
			return p.RunCollect(ctx, collectOptions())
		})
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich collected products with score and region",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) pipeline.StepResult {
			return p.RunEnrich(ctx)
		})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the warehouse contents with the enriched products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) pipeline.StepResult {
			return p.RunLoad(ctx)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect -> enrich -> load",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, wh, err := openStores()
		if err != nil {
			return err
		}
		defer docs.Close()
		defer wh.Close()

		pipe := pipeline.New(newClient(), docs, wh, logger)
		ctx := cmd.Context()

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun(ctx, collectOptions())
		} else {
			result = pipe.Run(ctx, collectOptions())
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/3: %s\n", i+1, step.Name)
			printStep(step)
		}

		if result.Failed() {
			return errors.New("pipeline failed")
		}
		if !dryRun {
			fmt.Println("\nPipeline complete! Run 'foodpipe serve' to browse the products.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	addCollectFlags(runCmd)
	addCollectFlags(collectCmd)
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only product API",
	RunE: func(cmd *cobra.Command, args []string) error {
		wh, err := warehouse.Open(cfg.WarehousePath(), logger)
		if err != nil {
			return err
		}
		defer wh.Close()

		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cmd.Context(), wh, port, logger.Named("http"))
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- helpers ---

func newClient() *collect.Client {
	return collect.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.UserAgent, cfg.Timeout())
}

func openStores() (*docstore.Store, *warehouse.Warehouse, error) {
	docs, err := docstore.Open(cfg.DocumentsPath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening document store: %w", err)
	}
	wh, err := warehouse.Open(cfg.WarehousePath(), logger)
	if err != nil {
		docs.Close()
		return nil, nil, fmt.Errorf("opening warehouse: %w", err)
	}
	return docs, wh, nil
}

func runStep(ctx context.Context, step func(context.Context, *pipeline.Pipeline) pipeline.StepResult) error {
	docs, wh, err := openStores()
	if err != nil {
		return err
	}
	defer docs.Close()
	defer wh.Close()

	result := step(ctx, pipeline.New(newClient(), docs, wh, logger))
	fmt.Printf("%s:\n", result.Name)
	printStep(result)
	if result.Err != nil {
		return fmt.Errorf("%s failed", result.Name)
	}
	return nil
}

func printStep(step pipeline.StepResult) {
	if step.Summary != "" {
		fmt.Printf("  %s\n", step.Summary)
	}
	if step.Err != nil {
		fmt.Printf("  Error: %v\n", step.Err)
	}
}
