package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvloznov/sales-analytics/internal/analytics"
	"github.com/dvloznov/sales-analytics/internal/catalog"
	"github.com/dvloznov/sales-analytics/internal/logger"
	"github.com/dvloznov/sales-analytics/internal/reader"
	"github.com/dvloznov/sales-analytics/internal/report"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	RunID string

	Lines        []string
	Parsed       []Transaction
	Filtered     []Transaction
	InvalidCount int
	Summary      FilterSummary

	Results report.Results

	Products []catalog.Product
	Enriched []EnrichedTransaction
}

// ReadInputStep loads the raw sales feed. A missing or undecodable file
// degrades to an empty dataset with a logged diagnostic; the pipeline
// carries on with zero records rather than aborting.
type ReadInputStep struct {
	Path      string
	Encodings []string
}

func (s *ReadInputStep) Name() string { return "read input" }

func (s *ReadInputStep) Execute(ctx context.Context, state *State) error {
	lines, err := reader.ReadSalesData(s.Path, s.Encodings)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("path", s.Path).
			Msg("Unable to read sales data, continuing with empty dataset")
		state.Lines = nil
		return nil
	}
	state.Lines = lines
	logger.FromContext(ctx).Info().Int("lines", len(lines)).Msg("Read sales data")
	return nil
}

// ParseStep turns raw lines into typed transactions, silently dropping
// malformed lines.
type ParseStep struct{}

func (s *ParseStep) Name() string { return "parse" }

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	state.Parsed = ParseTransactions(state.Lines)
	logger.FromContext(ctx).Info().
		Int("parsed", len(state.Parsed)).
		Int("dropped", len(state.Lines)-len(state.Parsed)).
		Msg("Parsed transactions")
	return nil
}

// ValidateFilterStep re-validates the parsed records and applies the
// user-supplied filters.
type ValidateFilterStep struct {
	Options FilterOptions
}

func (s *ValidateFilterStep) Name() string { return "validate and filter" }

func (s *ValidateFilterStep) Execute(ctx context.Context, state *State) error {
	state.Filtered, state.InvalidCount, state.Summary = ValidateAndFilter(state.Parsed, s.Options)
	logger.FromContext(ctx).Info().
		Int("total_input", state.Summary.TotalInput).
		Int("invalid", state.Summary.Invalid).
		Int("filtered_by_region", state.Summary.FilteredByRegion).
		Int("filtered_by_amount", state.Summary.FilteredByAmount).
		Int("final_count", state.Summary.FinalCount).
		Msg("Validated transactions")
	return nil
}

// AnalyzeStep runs the aggregation engine over the filtered records.
type AnalyzeStep struct {
	TopN         int
	LowThreshold int
}

func (s *AnalyzeStep) Name() string { return "analyze" }

func (s *AnalyzeStep) Execute(ctx context.Context, state *State) error {
	txns := state.Filtered

	state.Results = report.Results{
		TotalRevenue:  analytics.TotalRevenue(txns),
		Regions:       analytics.RegionWiseSales(txns),
		TopProducts:   analytics.TopSellingProducts(txns, s.TopN),
		Customers:     analytics.CustomerAnalysis(txns),
		Daily:         analytics.DailySalesTrend(txns),
		LowPerformers: analytics.LowPerformingProducts(txns, s.LowThreshold),
	}
	state.Results.Peak, state.Results.HasPeak = analytics.FindPeakSalesDay(txns)

	event := logger.FromContext(ctx).Info().
		Str("total_revenue", state.Results.TotalRevenue.StringFixed(2)).
		Int("regions", len(state.Results.Regions)).
		Int("days", len(state.Results.Daily))
	if state.Results.HasPeak {
		event = event.Str("peak_day", state.Results.Peak.Date)
	}
	event.Msg("Analysis complete")
	return nil
}

// FetchCatalogStep retrieves the product catalog. A fetch failure or an
// empty catalog aborts the remaining steps: enrichment and the report
// depend on it.
type FetchCatalogStep struct {
	Client *catalog.Client
}

func (s *FetchCatalogStep) Name() string { return "fetch catalog" }

func (s *FetchCatalogStep) Execute(ctx context.Context, state *State) error {
	products, err := s.Client.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching product catalog: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("product catalog returned no products")
	}
	state.Products = products
	logger.FromContext(ctx).Info().Int("products", len(products)).Msg("Fetched product catalog")
	return nil
}

// EnrichStep attaches catalog metadata to the filtered transactions.
type EnrichStep struct{}

func (s *EnrichStep) Name() string { return "enrich" }

func (s *EnrichStep) Execute(ctx context.Context, state *State) error {
	state.Enriched = Enrich(state.Filtered, catalog.Mapping(state.Products))

	matched, _ := SummarizeEnrichment(state.Enriched)
	logger.FromContext(ctx).Info().
		Int("matched", matched).
		Int("total", len(state.Enriched)).
		Msg("Enriched sales data")
	return nil
}

// SaveEnrichedStep writes the enriched flat file.
type SaveEnrichedStep struct {
	Path string
}

func (s *SaveEnrichedStep) Name() string { return "save enriched data" }

func (s *SaveEnrichedStep) Execute(ctx context.Context, state *State) error {
	f, err := createWithDirs(s.Path)
	if err != nil {
		return fmt.Errorf("saving enriched data: %w", err)
	}
	defer f.Close()

	if err := WriteEnriched(f, state.Enriched); err != nil {
		return fmt.Errorf("saving enriched data: %w", err)
	}
	logger.FromContext(ctx).Info().Str("path", s.Path).Msg("Saved enriched data")
	return nil
}

// RenderReportStep builds the report data from the engine results and
// writes the text report, plus the XLSX workbook when configured.
type RenderReportStep struct {
	ReportPath string
	XLSXPath   string
	Currency   string
}

func (s *RenderReportStep) Name() string { return "render report" }

func (s *RenderReportStep) Execute(ctx context.Context, state *State) error {
	matched, unmatched := SummarizeEnrichment(state.Enriched)
	data := report.Build(state.RunID, s.Currency, len(state.Filtered), state.Results, report.EnrichmentSummary{
		Matched:   matched,
		Total:     len(state.Enriched),
		Unmatched: unmatched,
	})

	f, err := createWithDirs(s.ReportPath)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	defer f.Close()

	if err := report.Render(f, data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.FromContext(ctx).Info().Str("path", s.ReportPath).Msg("Report generated")

	if s.XLSXPath != "" {
		if err := report.WriteXLSX(s.XLSXPath, data); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		logger.FromContext(ctx).Info().Str("path", s.XLSXPath).Msg("Workbook generated")
	}
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	for i, step := range p.steps {
		log.Info().
			Str("run_id", state.RunID).
			Str("step", step.Name()).
			Msgf("[%d/%d] %s", i+1, len(p.steps), step.Name())
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %q failed: %w", step.Name(), err)
		}
	}
	return nil
}

func createWithDirs(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
