package main

import (
	"fmt"

	"lolmath/internal/store"

	"github.com/spf13/cobra"
)

// cacheCmd manages the sqlite document cache
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the catalog cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached catalog documents",
	Args:  cobra.NoArgs,
	RunE:  listCache,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune [keep-version]",
	Short: "Delete cached documents of every other version",
	Args:  cobra.ExactArgs(1),
	RunE:  pruneCache,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}

func requireCache() (*store.CatalogCache, error) {
	if cfg.Catalog.CachePath == "" {
		return nil, fmt.Errorf("catalog cache is disabled (catalog.cache_path is empty)")
	}
	return store.Open(cfg.Catalog.CachePath)
}

func listCache(cmd *cobra.Command, _ []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	entries, err := cache.Entries()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-24s %8d bytes  %s\n",
			e.Version, e.Kind, e.Size, e.FetchedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func pruneCache(cmd *cobra.Command, args []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Prune(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d documents\n", n)
	return nil
}
