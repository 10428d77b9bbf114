package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dvloznov/sales-analytics/internal/catalog"
	"github.com/dvloznov/sales-analytics/internal/config"
	"github.com/dvloznov/sales-analytics/internal/logger"
	"github.com/dvloznov/sales-analytics/internal/pipeline"
)

var (
	inputFile      string
	outputFile     string
	xlsxFile       string
	enrichedFile   string
	regionFlag     string
	minAmountFlag  string
	maxAmountFlag  string
	interactive    bool
	skipEnrichment bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline over a sales data file",
	Long: `The analyze command runs the batch pipeline end to end: read the sales
feed, parse and clean it, validate and filter, compute the aggregate
analytics, enrich against the product catalog, and write the report.

Filters come from the --region / --min-amount / --max-amount flags, or
interactively with --interactive, which shows the available regions and
the transaction amount range before prompting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&inputFile, "input", "", "Sales data file (overrides config)")
	analyzeCmd.Flags().StringVar(&outputFile, "output", "", "Report output file (overrides config)")
	analyzeCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "Also export the report as an XLSX workbook")
	analyzeCmd.Flags().StringVar(&enrichedFile, "enriched-out", "", "Enriched data output file (overrides config)")
	analyzeCmd.Flags().StringVar(&regionFlag, "region", "", "Keep only transactions from this region")
	analyzeCmd.Flags().StringVar(&minAmountFlag, "min-amount", "", "Keep only transactions with amount >= this value")
	analyzeCmd.Flags().StringVar(&maxAmountFlag, "max-amount", "", "Keep only transactions with amount <= this value")
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for filters instead of reading flags")
	analyzeCmd.Flags().BoolVar(&skipEnrichment, "skip-enrichment", false, "Skip the catalog fetch and enrichment steps")
}

func runAnalyze() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)

	log := logger.New(cfg.LogLevel)
	runID := uuid.NewString()
	ctx := logger.WithContext(context.Background(), log)

	log.Info().Str("run_id", runID).Str("input", cfg.InputFile).Msg("Starting sales analysis")

	state := &pipeline.State{RunID: runID}

	// The feed is read and parsed before filters are chosen so the
	// interactive prompt can show what there is to filter on.
	front := pipeline.NewPipeline(
		&pipeline.ReadInputStep{Path: cfg.InputFile, Encodings: cfg.Encodings},
		&pipeline.ParseStep{},
	)
	if err := front.Execute(ctx, state); err != nil {
		return err
	}

	opts, err := filterOptions(state.Parsed)
	if err != nil {
		return err
	}

	steps := []pipeline.Step{
		&pipeline.ValidateFilterStep{Options: opts},
		&pipeline.AnalyzeStep{TopN: cfg.TopProducts, LowThreshold: cfg.LowThreshold},
	}
	if !skipEnrichment {
		client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Limit, cfg.CatalogTimeout())
		steps = append(steps,
			&pipeline.FetchCatalogStep{Client: client},
			&pipeline.EnrichStep{},
			&pipeline.SaveEnrichedStep{Path: cfg.EnrichedOutput},
		)
	}
	steps = append(steps, &pipeline.RenderReportStep{
		ReportPath: cfg.OutputReport,
		XLSXPath:   xlsxFile,
		Currency:   cfg.CurrencySymbol,
	})

	if err := pipeline.NewPipeline(steps...).Execute(ctx, state); err != nil {
		return err
	}

	log.Info().Str("run_id", runID).Str("report", cfg.OutputReport).Msg("Process complete")
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if inputFile != "" {
		cfg.InputFile = inputFile
	}
	if outputFile != "" {
		cfg.OutputReport = outputFile
	}
	if enrichedFile != "" {
		cfg.EnrichedOutput = enrichedFile
	}
}

// filterOptions resolves the validation filters, either from flags or
// from the interactive prompts.
func filterOptions(parsed []pipeline.Transaction) (pipeline.FilterOptions, error) {
	if interactive {
		return promptFilters(os.Stdin, os.Stdout, parsed), nil
	}

	var opts pipeline.FilterOptions
	if regionFlag != "" {
		region := strings.ToLower(strings.TrimSpace(regionFlag))
		opts.Region = &region
	}
	var err error
	if opts.MinAmount, err = parseAmountFlag("min-amount", minAmountFlag); err != nil {
		return opts, err
	}
	if opts.MaxAmount, err = parseAmountFlag("max-amount", maxAmountFlag); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseAmountFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected a numeric value", name, value)
	}
	return &amount, nil
}

// promptFilters reproduces the interactive filter dialog: show the
// available regions and amount range, then ask for an optional region and
// amount bounds, reprompting on non-numeric input.
func promptFilters(in io.Reader, out io.Writer, parsed []pipeline.Transaction) pipeline.FilterOptions {
	var opts pipeline.FilterOptions
	scanner := bufio.NewScanner(in)

	printFilterContext(out, parsed)

	fmt.Fprint(out, "Do you want to apply filters? (y/n): ")
	if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
		return opts
	}

	fmt.Fprint(out, "Enter region (leave blank for no region filter): ")
	if scanner.Scan() {
		if region := strings.ToLower(strings.TrimSpace(scanner.Text())); region != "" {
			opts.Region = &region
		}
	}

	opts.MinAmount = promptAmount(scanner, out, "Enter minimum transaction amount (leave blank for none): ")
	opts.MaxAmount = promptAmount(scanner, out, "Enter maximum transaction amount (leave blank for none): ")

	return opts
}

func printFilterContext(out io.Writer, parsed []pipeline.Transaction) {
	regions := make(map[string]bool)
	var minAmount, maxAmount decimal.Decimal
	for i, txn := range parsed {
		regions[txn.Region] = true
		amount := txn.Amount()
		if i == 0 {
			minAmount, maxAmount = amount, amount
			continue
		}
		if amount.LessThan(minAmount) {
			minAmount = amount
		}
		if amount.GreaterThan(maxAmount) {
			maxAmount = amount
		}
	}

	if len(regions) == 0 {
		fmt.Fprintln(out, "Available regions: none")
		fmt.Fprintln(out, "Transaction amount range: N/A")
		return
	}

	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Available regions: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(out, "Transaction amount range: %s to %s\n", minAmount.StringFixed(2), maxAmount.StringFixed(2))
}

func promptAmount(scanner *bufio.Scanner, out io.Writer, prompt string) *decimal.Decimal {
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return nil
		}
		value := strings.TrimSpace(scanner.Text())
		if value == "" {
			return nil
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			fmt.Fprintln(out, "Invalid input. Please enter a numeric value.")
			continue
		}
		return &amount
	}
}
