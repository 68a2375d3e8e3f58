// Stats command: pool, cache, and query counters for the local store.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store counters",
	Long: `Stats prints pool, cache, and query counters for the local store.

Example:
  stockroom stats
  stockroom stats --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := attachStore()
	if err != nil {
		return err
	}
	defer s.Detach()

	stats, err := s.Stats()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	if flagJSON {
		return printJSON(stats)
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "COUNTER\tVALUE")
	fmt.Fprintf(w, "pool.size\t%d\n", stats.Pool.Size)
	fmt.Fprintf(w, "pool.idle\t%d\n", stats.Pool.Idle)
	fmt.Fprintf(w, "pool.acquires\t%d\n", stats.Pool.Acquires)
	fmt.Fprintf(w, "pool.waits\t%d\n", stats.Pool.Waits)
	fmt.Fprintf(w, "pool.exhausted\t%d\n", stats.Pool.Exhausted)
	fmt.Fprintf(w, "pool.faults\t%d\n", stats.Pool.Faults)
	fmt.Fprintf(w, "cache.size\t%d\n", stats.Cache.Size)
	fmt.Fprintf(w, "cache.capacity\t%d\n", stats.Cache.Capacity)
	fmt.Fprintf(w, "cache.hits\t%d\n", stats.Cache.Hits)
	fmt.Fprintf(w, "cache.misses\t%d\n", stats.Cache.Misses)
	fmt.Fprintf(w, "cache.hit_rate\t%.2f\n", stats.Cache.HitRate())
	fmt.Fprintf(w, "cache.evictions\t%d\n", stats.Cache.Evictions)
	fmt.Fprintf(w, "cache.invalidations\t%d\n", stats.Cache.Invalidations)
	fmt.Fprintf(w, "queries.total\t%d\n", stats.Queries.Total)
	fmt.Fprintf(w, "queries.failed\t%d\n", stats.Queries.Failed)
	fmt.Fprintf(w, "queries.slow\t%d\n", stats.Queries.Slow)
	w.Flush()
	fmt.Print(sb.String())
	return nil
}
