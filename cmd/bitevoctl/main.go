package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bitevo/internal/stats"
	"bitevo/internal/storage"
	bitapi "bitevo/pkg/bitevo"
)

const (
	artifactsDir = "runs"
	exportsDir   = "exports"
	defaultDB    = "bitevo.db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "problems":
		return runProblems(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type commonFlags struct {
	storeKind *string
	dbPath    *string
	artifacts *string
	logLevel  *string
}

func registerCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		storeKind: fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:    fs.String("db-path", defaultDB, "sqlite database path"),
		artifacts: fs.String("artifacts", artifactsDir, "run artifacts directory (empty disables)"),
		logLevel:  fs.String("log-level", "warn", "log level: debug|info|warn|error"),
	}
}

func (f commonFlags) client(metrics *stats.Metrics) (*bitapi.Client, error) {
	logger, err := newLogger(os.Stderr, *f.logLevel)
	if err != nil {
		return nil, err
	}
	return bitapi.New(bitapi.Options{
		StoreKind:    *f.storeKind,
		DBPath:       *f.dbPath,
		ArtifactsDir: *f.artifacts,
		Logger:       logger,
		Metrics:      metrics,
	})
}

// newLogger picks a text handler for terminals and JSON otherwise.
func newLogger(w *os.File, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *common.storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	problemName := fs.String("problem", "onemax", "problem: "+strings.Join(bitapi.ProblemNames(), "|"))
	population := fs.Int("pop", 10, "population size")
	length := fs.Int("length", 8, "genome length in bits")
	fitnessLimit := fs.Float64("fitness-limit", 0, "stop once the best fitness reaches this value (0 uses the problem optimum)")
	generations := fs.Int("gens", 100, "generation limit (0 reports the initial population)")
	selectionName := fs.String("selection", "roulette", "parent selection: roulette|tournament")
	tournamentSize := fs.Int("tournament-size", 3, "contestants per tournament")
	crossoverName := fs.String("crossover", "single_point", "crossover: single_point|two_point|uniform")
	uniformMix := fs.Float64("uniform-mix", 0.5, "per-bit swap probability for uniform crossover")
	mutationIterations := fs.Int("mutation-iterations", 1, "mutation draws per offspring")
	mutationProbability := fs.Float64("mutation-probability", 0.5, "mutation probability; a bit flips when the draw exceeds it")
	seed := fs.Int64("seed", 0, "rng seed (0 draws one from the clock)")
	quiet := fs.Bool("quiet", false, "suppress per-generation output")
	jsonOut := fs.Bool("json", false, "emit the run summary as JSON")
	metricsAddr := fs.String("metrics-addr", "", "serve prometheus metrics on this address while running")
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = bitapi.RunRequest{
			RunID:              *runID,
			Problem:            *problemName,
			Population:         *population,
			GenomeLength:       *length,
			FitnessLimit:       *fitnessLimit,
			GenerationLimit:    generations,
			Selection:          *selectionName,
			TournamentSize:     *tournamentSize,
			Crossover:          *crossoverName,
			UniformMix:         *uniformMix,
			MutationIterations: *mutationIterations,
			Seed:               *seed,
		}
		p := *mutationProbability
		req.MutationProbability = &p
	} else {
		err := overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":               *runID,
			"problem":              *problemName,
			"pop":                  *population,
			"length":               *length,
			"fitness-limit":        *fitnessLimit,
			"gens":                 *generations,
			"selection":            *selectionName,
			"tournament-size":      *tournamentSize,
			"crossover":            *crossoverName,
			"uniform-mix":          *uniformMix,
			"mutation-iterations":  *mutationIterations,
			"mutation-probability": *mutationProbability,
			"seed":                 *seed,
		})
		if err != nil {
			return err
		}
	}
	if !*quiet && !*jsonOut {
		req.Progress = os.Stdout
	}

	var metrics *stats.Metrics
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err = stats.NewMetrics(reg)
		if err != nil {
			return err
		}
		stop := serveMetrics(*metricsAddr, reg)
		defer stop()
	}

	client, err := common.client(metrics)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(os.Stdout, summary)
	}

	fmt.Printf("run_id=%s problem=%s seed=%d generations=%d converged=%t best=%s best_fitness=%.6f evaluations=%s duration=%s\n",
		summary.RunID,
		summary.Problem,
		summary.Seed,
		summary.Generations,
		summary.Converged,
		summary.BestGenome,
		summary.BestFitness,
		humanize.Comma(summary.Evaluations),
		summary.Duration.Round(time.Microsecond),
	)
	if len(summary.Details) > 0 {
		fmt.Printf("details=%s\n", strings.Join(summary.Details, ","))
	}
	if summary.ArtifactsDir != "" {
		fmt.Printf("artifacts=%s\n", filepath.Clean(summary.ArtifactsDir))
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := common.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, bitapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		return writeJSON(os.Stdout, runs)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created=%q problem=%s seed=%d pop=%d length=%d gens=%d converged=%t best_fitness=%.6f evaluations=%s\n",
			r.ID,
			humanize.Time(r.CreatedAt),
			r.Problem,
			r.Seed,
			r.PopulationSize,
			r.GenomeLength,
			r.Generations,
			r.Converged,
			r.BestFitness,
			humanize.Comma(r.Evaluations),
		)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("diagnostics requires --run-id or --latest")
	}
	if *limit < 0 {
		*limit = 0
	}

	client, err := common.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, bitapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		return writeJSON(os.Stdout, diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d size=%d best=%.6f mean=%.6f min=%.6f std=%.6f distinct=%d best_genome=%s\n",
			d.Generation,
			d.PopulationSize,
			d.BestFitness,
			d.MeanFitness,
			d.MinFitness,
			d.StdDevFitness,
			d.DistinctGenomes,
			d.BestGenome,
		)
	}
	return nil
}

func runProblems(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	length := fs.Int("length", 8, "genome length used to report each optimum")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *length <= 0 {
		return errors.New("length must be > 0")
	}
	for _, name := range bitapi.ProblemNames() {
		optimum, err := bitapi.ProblemOptimum(name, *length)
		if err != nil {
			return err
		}
		fmt.Printf("problem=%s optimum@%d=%g\n", name, *length, optimum)
	}
	return nil
}

func runExport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from the run index")
	from := fs.String("artifacts", artifactsDir, "run artifacts directory")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}
	if *latest {
		entries, err := stats.ListRunIndex(*from)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available to export")
		}
		*runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(*from, *runID, *outDir)
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s to=%s\n", *runID, filepath.Clean(exportedDir))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: bitevoctl <init|run|runs|diagnostics|problems|export> [flags]", msg)
}
