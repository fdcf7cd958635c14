package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"lolmath/internal/catalog"
	"lolmath/internal/config"
	"lolmath/internal/logging"
	"lolmath/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lolmath",
	Short: "lolmath - math-first League of Legends matchup advisor",
	Long: `lolmath asks a search-grounded Gemini model for a mathematically
optimized rune page, build, skill order and power curve for a lane matchup,
and maps every champion, item and rune it names to Data Dragon icons.

Set GEMINI_API_KEY before running analyze or serve.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		opts := cfg.LoggingOptions()
		if verbose {
			opts.Level = "debug"
		}
		if len(opts.OutputPaths) == 0 {
			opts.OutputPaths = []string{"stderr"}
		}
		if err := logging.Initialize(opts); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Root()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "lolmath.yaml", "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(championsCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(abilitiesCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCache opens the sqlite document cache, or returns nil when caching is
// disabled or the database cannot be opened.
func openCache() *store.CatalogCache {
	if cfg.Catalog.CachePath == "" {
		return nil
	}
	cache, err := store.Open(cfg.Catalog.CachePath)
	if err != nil {
		logger.Warn("catalog cache unavailable", zap.String("path", cfg.Catalog.CachePath), zap.Error(err))
		return nil
	}
	return cache
}

// newCatalog builds a catalog store wired to the cache. The returned
// cleanup closes the cache.
func newCatalog() (*catalog.Store, *store.CatalogCache, func()) {
	opts := []catalog.Option{}
	cache := openCache()
	if cache != nil {
		opts = append(opts, catalog.WithCache(cache))
	}
	cleanup := func() {
		if cache != nil {
			_ = cache.Close()
		}
	}
	return catalog.New(cfg.CatalogOptions(), opts...), cache, cleanup
}

// loadCatalog builds and loads the catalog, pruning cached documents from
// older versions on success.
func loadCatalog(ctx context.Context) (*catalog.Store, func(), error) {
	cat, cache, cleanup := newCatalog()
	if err := cat.Load(ctx); err != nil {
		return cat, cleanup, err
	}
	if cache != nil {
		if _, err := cache.Prune(cat.Version()); err != nil {
			logger.Warn("failed to prune catalog cache", zap.Error(err))
		}
	}
	logger.Info("catalog loaded", zap.String("version", cat.Version()))
	return cat, cleanup, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
