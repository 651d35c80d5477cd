package engine

import (
	"context"
	"time"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/engine/batch"
	"github.com/rshade/carbonscope/internal/logging"
	"github.com/rshade/carbonscope/internal/report"
)

// DefaultConcurrency is the number of batches estimated at once.
const DefaultConcurrency = 4

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// BatchSize is the number of scenarios per batch.
	BatchSize int
	// Concurrency is the maximum number of batches in flight.
	Concurrency int
	// DefaultRegion fills in scenarios that omit a region.
	DefaultRegion emissions.Region
	// OnProgress receives a snapshot after each batch.
	OnProgress batch.ProgressCallback
}

// Engine estimates scenarios in bulk.
type Engine struct {
	opts Options
}

// New creates an Engine. Out-of-range batch sizes are clamped.
func New(opts Options) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = batch.DefaultBatchSize
	}
	opts.BatchSize = min(max(opts.BatchSize, batch.MinBatchSize), batch.MaxBatchSize)
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Engine{opts: opts}
}

// Outcome is the result of one scenario. Err is non-nil when the scenario
// was rejected, in which case Result is zero.
type Outcome struct {
	Scenario Scenario
	Result   emissions.Result
	Err      error
}

// OK reports whether the scenario was estimated.
func (o Outcome) OK() bool { return o.Err == nil }

// Totals aggregates the successful outcomes of a run.
type Totals struct {
	Scenarios   int     `json:"scenarios"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	Scope1Total float64 `json:"Scope1_Total"`
	Scope2Total float64 `json:"Scope2_Electricity"`
	TotalS1S2   float64 `json:"Total_S1S2"`
	Scope3Minor float64 `json:"Scope3_Minor"`
	TotalWithS3 float64 `json:"Total_With_S3"`
}

// Summarize computes Totals for outcomes.
func Summarize(outcomes []Outcome) Totals {
	t := Totals{Scenarios: len(outcomes)}
	for _, o := range outcomes {
		if !o.OK() {
			t.Failed++
			continue
		}
		t.Succeeded++
		t.Scope1Total += o.Result.Scope1Total
		t.Scope2Total += o.Result.Scope2Electricity
		t.TotalS1S2 += o.Result.TotalS1S2
		t.Scope3Minor += o.Result.Scope3Minor
		t.TotalWithS3 += o.Result.TotalWithS3
	}
	return t
}

// EstimateAll validates and estimates every scenario. Per-scenario failures
// are recorded in the returned outcomes; the error is non-nil only when ctx
// is cancelled before the run completes.
func (e *Engine) EstimateAll(ctx context.Context, scenarios []Scenario) ([]Outcome, Totals, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if len(scenarios) == 0 {
		return nil, Totals{}, nil
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "estimate_all").
		Int("scenarios", len(scenarios)).
		Int("batch_size", e.opts.BatchSize).
		Int("concurrency", e.opts.Concurrency).
		Msg("starting batch estimation")

	outcomes := make([]Outcome, len(scenarios))
	indices := make([]int, len(scenarios))
	for i := range indices {
		indices[i] = i
	}

	proc, err := batch.NewProcessor[int](e.opts.BatchSize)
	if err != nil {
		return nil, Totals{}, err
	}
	proc.WithProgressCallback(e.opts.OnProgress)

	err = proc.ProcessConcurrent(ctx, indices, func(ctx context.Context, idx []int, _ int) error {
		for _, i := range idx {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.estimate(scenarios[i])
		}
		return nil
	}, e.opts.Concurrency)
	if err != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Msg("batch estimation interrupted")
		return nil, Totals{}, err
	}

	totals := Summarize(outcomes)
	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Int("scenarios", totals.Scenarios).
		Int("failed", totals.Failed).
		Float64("total_s1s2", totals.TotalS1S2).
		Dur("duration", time.Since(start)).
		Msg("batch estimation complete")

	return outcomes, totals, nil
}

func (e *Engine) estimate(s Scenario) Outcome {
	if s.Region == "" && e.opts.DefaultRegion != "" {
		s.Region = e.opts.DefaultRegion
	}
	res, err := emissions.ValidateAndEstimate(s.Input)
	return Outcome{Scenario: s, Result: res, Err: err}
}

// ReportEntries converts outcomes into report batch entries.
func ReportEntries(outcomes []Outcome, precision int, withEquivalents bool) []report.BatchEntry {
	now := time.Now().UTC()
	entries := make([]report.BatchEntry, 0, len(outcomes))
	for _, o := range outcomes {
		var doc report.Document
		if o.OK() {
			doc = report.NewDocument(o.Scenario.Input, o.Result, precision, withEquivalents)
			doc.GeneratedAt = now
		} else {
			doc = report.Document{Input: o.Scenario.Input}
		}
		doc.Name = o.Scenario.Name
		entries = append(entries, report.BatchEntry{Document: doc, Err: o.Err})
	}
	return entries
}
