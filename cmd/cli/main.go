package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sales-analytics",
	Short: "Batch analytics over a pipe-delimited sales transaction log",
	Long: `sales-analytics ingests a pipe-delimited sales transaction log, cleans
and validates it, computes descriptive analytics (revenue by region, top
products, customer behavior, daily trends, peak day, underperformers),
enriches each transaction with product catalog metadata, and writes a
formatted text report.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml",
		"Path to the configuration file")
}
