package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/brdata/municipio-cli/internal/warehouse"
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Inspect the indicator warehouse",
}

var indicatorsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indicator completeness counts",
	Long: `Reports how many municipality rows the warehouse holds, how many have
complete indicator data (and thus qualify for clustering), and the per-region
breakdown of the complete rows.`,
	RunE: runIndicatorsStatus,
}

func init() {
	addWarehouseFlags(indicatorsStatusCmd)
	indicatorsCmd.AddCommand(indicatorsStatusCmd)
	rootCmd.AddCommand(indicatorsCmd)
}

func runIndicatorsStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	warehouseCfg := applyWarehouseOverrides(cmd, cfg.Warehouse)

	repo, err := warehouse.Open(ctx, warehouseCfg)
	if err != nil {
		return eris.Wrap(err, "indicators status: open warehouse")
	}
	defer repo.Close()

	summary, err := repo.Summary(ctx)
	if err != nil {
		return eris.Wrap(err, "indicators status")
	}

	ptBR.Printf("Municipalities: %d\n", summary.Total)
	ptBR.Printf("Complete:       %d\n", summary.Complete)
	ptBR.Printf("Excluded:       %d (NULL in a required indicator)\n", summary.Excluded())
	if len(summary.PerRegion) > 0 {
		fmt.Println("\nComplete rows by region:")
		for _, rc := range summary.PerRegion {
			ptBR.Printf("  %-14s %d\n", rc.Region, rc.Count)
		}
	}

	return nil
}
