// Package bitevo is the public entry point for running binary genetic
// algorithm searches against the built-in problems and browsing past runs.
package bitevo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bitevo/internal/evo"
	"bitevo/internal/model"
	"bitevo/internal/problem"
	"bitevo/internal/stats"
	"bitevo/internal/storage"
)

const (
	defaultDBPath         = "bitevo.db"
	defaultPopulationSize = 10
	defaultGenomeLength   = 8
	defaultRunsLimit      = 20
)

var ErrRunNotFound = errors.New("run not found")

type Options struct {
	StoreKind string
	DBPath    string
	// ArtifactsDir receives per-run JSON/CSV artifacts and the run index.
	// Empty disables artifacts.
	ArtifactsDir string
	Logger       *slog.Logger
	// Metrics, when set, receives per-generation and per-run series.
	Metrics *stats.Metrics
}

type Client struct {
	store        storage.Store
	artifactsDir string
	logger       *slog.Logger
	metrics      *stats.Metrics
}

type RunRequest struct {
	RunID        string
	Problem      string
	Population   int
	GenomeLength int
	// FitnessLimit of zero means the problem optimum for GenomeLength.
	FitnessLimit float64
	// GenerationLimit nil means evo.DefaultGenerationLimit. Zero runs no
	// generation and reports the initial population.
	GenerationLimit     *int
	Selection           string
	TournamentSize      int
	Crossover           string
	UniformMix          float64
	// MutationIterations of zero means evo.DefaultMutationIterations.
	MutationIterations  int
	MutationProbability *float64
	// Seed of zero draws a seed from the clock; the seed used is reported.
	Seed int64
	// Progress, when set, receives a printed block per generation.
	Progress io.Writer
}

type RunSummary struct {
	RunID        string
	Problem      string
	Seed         int64
	Generations  int
	Converged    bool
	FitnessLimit float64
	BestGenome   string
	BestFitness  float64
	Evaluations  int64
	Duration     time.Duration
	ArtifactsDir string
	// Details carries problem-specific notes, such as knapsack item names.
	Details []string
}

type RunsRequest struct {
	Limit int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: opts.ArtifactsDir,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Problems lists the names accepted by RunRequest.Problem.
func (c *Client) Problems() []string {
	return ProblemNames()
}

func ProblemNames() []string {
	return problem.Names()
}

// ProblemOptimum reports the best reachable fitness of a named problem for
// genomes of the given length.
func ProblemOptimum(name string, length int) (float64, error) {
	p, err := problem.Lookup(name)
	if err != nil {
		return 0, err
	}
	return p.Optimum(length), nil
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	req, err := normalizeRunRequest(req)
	if err != nil {
		return RunSummary{}, err
	}

	p, err := problem.Lookup(req.Problem)
	if err != nil {
		return RunSummary{}, err
	}
	fitnessLimit := req.FitnessLimit
	if fitnessLimit == 0 {
		fitnessLimit = p.Optimum(req.GenomeLength)
	}

	selection, err := selectionFromRequest(req)
	if err != nil {
		return RunSummary{}, err
	}
	crossover, err := crossoverFromRequest(req)
	if err != nil {
		return RunSummary{}, err
	}
	mutation := evo.BitFlipMutation{
		Iterations:  req.MutationIterations,
		Probability: *req.MutationProbability,
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := c.logger.With(slog.String("run_id", runID), slog.String("problem", p.Name()))

	collector := &stats.Collector[float64]{}
	observers := []evo.Observer[float64]{collector.Observe}
	if req.Progress != nil {
		observers = append(observers, stats.NewPrinter[float64](req.Progress).Observer())
	}
	if c.metrics != nil {
		observers = append(observers, stats.MetricsObserver[float64](c.metrics, p.Name()))
	}

	engine, err := evo.NewEngine(evo.Config[float64]{
		Populate:        evo.RandomPopulator(req.Population, req.GenomeLength),
		Fitness:         p.Fitness,
		FitnessLimit:    fitnessLimit,
		Selection:       selection,
		Crossover:       crossover,
		Mutation:        mutation,
		GenerationLimit: *req.GenerationLimit,
		Observer:        evo.ChainObservers(observers...),
		Rand:            evo.NewRand(req.Seed),
		Logger:          logger,
	})
	if err != nil {
		return RunSummary{}, err
	}

	started := time.Now()
	result, err := engine.Run(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", runID, err)
	}
	elapsed := time.Since(started)
	if c.metrics != nil {
		c.metrics.RecordRun(p.Name(), result.Converged)
	}

	record := model.RunRecord{
		VersionedRecord: storage.Versioned(),
		ID:              runID,
		Problem:         p.Name(),
		GenomeLength:    req.GenomeLength,
		PopulationSize:  req.Population,
		GenerationLimit: *req.GenerationLimit,
		FitnessLimit:    fitnessLimit,
		Selection:       selection.Name(),
		Crossover:       crossover.Name(),
		Mutation:        fmt.Sprintf("%s(iterations=%d,probability=%g)", mutation.Name(), mutation.Iterations, mutation.Probability),
		Seed:            req.Seed,
		Generations:     result.Generations,
		Converged:       result.Converged,
		BestGenome:      result.Best.String(),
		BestFitness:     result.BestFitness,
		Evaluations:     result.Evaluations,
		DurationMS:      elapsed.Milliseconds(),
		CreatedAt:       time.Now().UTC(),
	}
	diagnostics := collector.Diagnostics()
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, diagnostics); err != nil {
		return RunSummary{}, fmt.Errorf("save diagnostics %s: %w", runID, err)
	}

	summary := RunSummary{
		RunID:        runID,
		Problem:      p.Name(),
		Seed:         req.Seed,
		Generations:  result.Generations,
		Converged:    result.Converged,
		FitnessLimit: fitnessLimit,
		BestGenome:   record.BestGenome,
		BestFitness:  result.BestFitness,
		Evaluations:  result.Evaluations,
		Duration:     elapsed,
	}
	if k, ok := p.(problem.Knapsack); ok {
		summary.Details = k.Selected(result.Best)
	}

	if c.artifactsDir != "" {
		dir, err := c.writeArtifacts(record, req, collector, diagnostics)
		if err != nil {
			return RunSummary{}, err
		}
		summary.ArtifactsDir = dir
	}

	logger.Info("run finished",
		slog.Int("generations", result.Generations),
		slog.Bool("converged", result.Converged),
		slog.Float64("best_fitness", result.BestFitness),
		slog.Duration("duration", elapsed),
	)
	return summary, nil
}

func (c *Client) writeArtifacts(record model.RunRecord, req RunRequest, collector *stats.Collector[float64], diagnostics []model.GenerationDiagnostics) (string, error) {
	dir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:                 record.ID,
			Problem:               record.Problem,
			PopulationSize:        record.PopulationSize,
			GenomeLength:          record.GenomeLength,
			FitnessLimit:          record.FitnessLimit,
			GenerationLimit:       record.GenerationLimit,
			Selection:             record.Selection,
			Crossover:             record.Crossover,
			MutationIterations:    req.MutationIterations,
			MutationProbability:   *req.MutationProbability,
			TournamentSize:        req.TournamentSize,
			UniformMixProbability: req.UniformMix,
			Seed:                  record.Seed,
		},
		BestByGeneration:      collector.BestByGeneration(),
		GenerationDiagnostics: diagnostics,
		Best: stats.BestGenome{
			Genome:      record.BestGenome,
			Fitness:     record.BestFitness,
			Converged:   record.Converged,
			Generations: record.Generations,
		},
	})
	if err != nil {
		return "", fmt.Errorf("write artifacts %s: %w", record.ID, err)
	}
	err = stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:           record.ID,
		Problem:         record.Problem,
		PopulationSize:  record.PopulationSize,
		GenomeLength:    record.GenomeLength,
		GenerationLimit: record.GenerationLimit,
		Seed:            record.Seed,
		Generations:     record.Generations,
		Converged:       record.Converged,
		BestFitness:     record.BestFitness,
		CreatedAtUTC:    record.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("append run index: %w", err)
	}
	return dir, nil
}

// Runs lists recorded runs newest first. When the store holds none, the
// artifacts run index is consulted, so runs made by earlier processes with a
// memory store remain visible.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunsLimit
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 || c.artifactsDir == "" {
		return runs, nil
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	out := make([]model.RunRecord, 0, len(entries))
	for _, e := range entries {
		created, _ := time.Parse(time.RFC3339Nano, e.CreatedAtUTC)
		record := model.RunRecord{
			VersionedRecord: storage.Versioned(),
			ID:              e.RunID,
			Problem:         e.Problem,
			PopulationSize:  e.PopulationSize,
			GenomeLength:    e.GenomeLength,
			GenerationLimit: e.GenerationLimit,
			Seed:            e.Seed,
			Generations:     e.Generations,
			Converged:       e.Converged,
			BestFitness:     e.BestFitness,
			CreatedAt:       created,
		}
		cfg, ok, err := stats.ReadRunConfig(c.artifactsDir, e.RunID)
		if err != nil {
			return nil, err
		}
		if ok {
			record.FitnessLimit = cfg.FitnessLimit
			record.Selection = cfg.Selection
			record.Crossover = cfg.Crossover
		}
		out = append(out, record)
	}
	return out, nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	runID := req.RunID
	if req.Latest {
		runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errors.New("no runs available")
		}
		runID = runs[0].ID
	}
	if runID == "" {
		return nil, errors.New("diagnostics requires run id or latest")
	}

	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok && c.artifactsDir != "" {
		diagnostics, ok, err = stats.ReadGenerationDiagnostics(c.artifactsDir, runID)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		_, known, err := c.store.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func normalizeRunRequest(req RunRequest) (RunRequest, error) {
	req.Problem = strings.TrimSpace(req.Problem)
	if req.Problem == "" {
		req.Problem = "onemax"
	}
	if req.Population == 0 {
		req.Population = defaultPopulationSize
	}
	if req.Population < 0 {
		return req, fmt.Errorf("population must be > 0")
	}
	if req.GenomeLength == 0 {
		req.GenomeLength = defaultGenomeLength
	}
	if req.GenomeLength < 0 {
		return req, fmt.Errorf("genome length must be > 0")
	}
	if req.GenerationLimit == nil {
		limit := evo.DefaultGenerationLimit
		req.GenerationLimit = &limit
	}
	if *req.GenerationLimit < 0 {
		return req, fmt.Errorf("generation limit must be >= 0, got %d", *req.GenerationLimit)
	}
	if req.MutationIterations == 0 {
		req.MutationIterations = evo.DefaultMutationIterations
	}
	if req.MutationIterations < 0 {
		return req, fmt.Errorf("mutation iterations must be > 0, got %d", req.MutationIterations)
	}
	if req.MutationProbability == nil {
		p := evo.DefaultMutationProbability
		req.MutationProbability = &p
	}
	if p := *req.MutationProbability; p < 0 || p > 1 {
		return req, fmt.Errorf("mutation probability must be in [0, 1], got %g", p)
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	return req, nil
}

func selectionFromRequest(req RunRequest) (evo.Selector[float64], error) {
	if req.Selection == "tournament" {
		return evo.TournamentSelector[float64]{Size: req.TournamentSize}, nil
	}
	return evo.SelectorByName[float64](req.Selection)
}

func crossoverFromRequest(req RunRequest) (evo.Crossover, error) {
	if req.Crossover == "uniform" {
		return evo.UniformCrossover{MixProbability: req.UniformMix}, nil
	}
	return evo.CrossoverByName(req.Crossover)
}
