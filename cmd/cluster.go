package main

import (
	"github.com/spf13/cobra"

	"github.com/brdata/municipio-cli/internal/config"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Segment municipalities into development tiers",
	Long: `Clusters municipalities into development tiers from their socio-economic
indicators (HDI components, social vulnerability, Gini, income per capita).

Subcommands:
  run   execute the production clustering pipeline and export the seed file
  scan  diagnostic sweep over candidate cluster counts (never changes k)`,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
}

// applyClusterOverrides returns a copy of the cluster config with CLI flag
// overrides applied.
func applyClusterOverrides(cmd *cobra.Command, base config.ClusterConfig) config.ClusterConfig {
	c := base

	if v, _ := cmd.Flags().GetInt("k"); v > 0 {
		c.K = v
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetInt64("seed")
		c.Seed = v
	}
	if v, _ := cmd.Flags().GetInt("restarts"); v > 0 {
		c.Restarts = v
	}
	if v, _ := cmd.Flags().GetInt("max-iter"); v > 0 {
		c.MaxIterations = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		c.OutputPath = v
	}
	if v, _ := cmd.Flags().GetStringSlice("labels"); len(v) > 0 {
		c.Labels = v
	}

	return c
}

// applyWarehouseOverrides returns a copy of the warehouse config with CLI
// flag overrides applied.
func applyWarehouseOverrides(cmd *cobra.Command, base config.WarehouseConfig) config.WarehouseConfig {
	c := base

	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		c.Driver = v
	}
	if v, _ := cmd.Flags().GetString("warehouse"); v != "" {
		c.Path = v
	}
	if v, _ := cmd.Flags().GetString("database-url"); v != "" {
		c.DatabaseURL = v
	}
	if v, _ := cmd.Flags().GetString("table"); v != "" {
		c.Table = v
	}

	return c
}

// addWarehouseFlags registers the shared warehouse selection flags.
func addWarehouseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("driver", "", "warehouse driver: sqlite or postgres (overrides config)")
	f.String("warehouse", "", "sqlite warehouse file path (overrides config)")
	f.String("database-url", "", "postgres DSN (overrides config)")
	f.String("table", "", "municipality dimension table (overrides config)")
}
