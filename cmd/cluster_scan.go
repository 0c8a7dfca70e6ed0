package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brdata/municipio-cli/internal/cluster"
	"github.com/brdata/municipio-cli/internal/warehouse"
)

var clusterScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep candidate cluster counts (diagnostic only)",
	Long: `Fits the engine for every k in [2, max-k] and prints inertia and
silhouette per k, plus the k the silhouette score favors.

Advisory output only: production runs keep the configured k (default 5) so
the tier labels stay stable and interpretable. This command never writes the
seed file.`,
	RunE: runClusterScan,
}

func init() {
	f := clusterScanCmd.Flags()
	f.Int("max-k", 10, "largest cluster count to try")
	f.Int64("seed", 0, "random seed (overrides config)")
	f.Int("restarts", 0, "independent k-means restarts (overrides config)")
	f.Int("max-iter", 0, "iteration cap per restart (overrides config)")
	addWarehouseFlags(clusterScanCmd)

	clusterCmd.AddCommand(clusterScanCmd)
}

func runClusterScan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "cluster scan"))

	clusterCfg := applyClusterOverrides(cmd, cfg.Cluster)
	warehouseCfg := applyWarehouseOverrides(cmd, cfg.Warehouse)
	maxK, _ := cmd.Flags().GetInt("max-k")
	if maxK < 2 {
		return eris.Errorf("cluster scan: --max-k must be >= 2 (got %d)", maxK)
	}

	repo, err := warehouse.Open(ctx, warehouseCfg)
	if err != nil {
		return eris.Wrap(err, "cluster scan: open warehouse")
	}
	defer repo.Close()

	pipeline := cluster.New(repo, cluster.Options{
		Seed:          clusterCfg.Seed,
		Restarts:      clusterCfg.Restarts,
		MaxIterations: clusterCfg.MaxIterations,
	}, log)

	results, bestK, err := pipeline.ScanK(ctx, maxK)
	if err != nil {
		return eris.Wrap(err, "cluster scan")
	}

	fmt.Printf("%-4s %14s %12s\n", "k", "inertia", "silhouette")
	fmt.Println(strings.Repeat("-", 32))
	for _, r := range results {
		marker := ""
		if r.K == bestK {
			marker = "  <- best silhouette"
		}
		fmt.Printf("%-4d %14.2f %12.4f%s\n", r.K, r.Inertia, r.Silhouette, marker)
	}
	fmt.Printf("\nBest k by silhouette: %d (production keeps k=%d for interpretability)\n",
		bestK, clusterCfg.K)

	return nil
}
