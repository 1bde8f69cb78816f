package evo

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"bitevo/internal/model"
)

func TestRunOneMaxConverges(t *testing.T) {
	converged := 0
	for seed := int64(1); seed <= 20; seed++ {
		result, err := Run(context.Background(), RandomPopulator(10, 8), onesFitness, 8,
			WithRand[int](NewRand(seed)),
		)
		if err != nil {
			t.Fatalf("seed %d: run: %v", seed, err)
		}
		if !result.Converged {
			continue
		}
		converged++
		if result.Generations >= DefaultGenerationLimit {
			t.Fatalf("seed %d: converged after the limit: %d", seed, result.Generations)
		}
		if got := result.Population[0].String(); got != "11111111" {
			t.Fatalf("seed %d: expected ranked winner 11111111, got %s", seed, got)
		}
		if result.Best.String() != "11111111" || result.BestFitness != 8 {
			t.Fatalf("seed %d: unexpected best %s (%d)", seed, result.Best, result.BestFitness)
		}
	}
	if converged < 15 {
		t.Fatalf("expected most seeded runs to converge, got %d/20", converged)
	}
}

func TestRunStopsAtGenerationZeroWhenAlreadyOptimal(t *testing.T) {
	initial := model.Population{
		model.MustParseGenome("00000001"),
		model.MustParseGenome("11111111"),
		model.MustParseGenome("00000011"),
	}
	calls := 0
	result, err := Run(context.Background(), StaticPopulator(initial), onesFitness, 8,
		WithRand[int](NewRand(1)),
		WithObserver(func(pop model.Population, generation int, _ FitnessFunc[int]) {
			calls++
			if generation != 0 || pop[0].String() != "11111111" {
				t.Fatalf("observer saw generation %d best %s", generation, pop[0])
			}
		}),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Converged || result.Generations != 0 || calls != 1 {
		t.Fatalf("unexpected result converged=%v generations=%d calls=%d", result.Converged, result.Generations, calls)
	}
}

func TestRunGenerationLimitZeroReturnsInitialPopulation(t *testing.T) {
	initial := model.Population{
		model.MustParseGenome("0001"),
		model.MustParseGenome("1111"),
		model.MustParseGenome("0011"),
	}
	observed := false
	result, err := Run(context.Background(), StaticPopulator(initial), onesFitness, 4,
		WithGenerationLimit[int](0),
		WithRand[int](NewRand(1)),
		WithObserver(func(model.Population, int, FitnessFunc[int]) { observed = true }),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if observed {
		t.Fatal("observer must not run without a generation")
	}
	if result.Generations != 0 || result.Converged {
		t.Fatalf("unexpected result: generations=%d converged=%v", result.Generations, result.Converged)
	}
	for i := range initial {
		if result.Population[i].String() != initial[i].String() {
			t.Fatalf("population reordered at %d: %v", i, result.Population.Strings())
		}
	}
}

func TestRunExhaustsGenerationLimit(t *testing.T) {
	calls := 0
	result, err := Run(context.Background(), RandomPopulator(10, 8), onesFitness, 9,
		WithGenerationLimit[int](5),
		WithRand[int](NewRand(3)),
		WithObserver(func(model.Population, int, FitnessFunc[int]) { calls++ }),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Converged {
		t.Fatal("unreachable limit must not converge")
	}
	if result.Generations != 4 {
		t.Fatalf("expected generations=limit-1=4, got %d", result.Generations)
	}
	if calls != 5 {
		t.Fatalf("expected 5 observed generations, got %d", calls)
	}
	if len(result.Population) != 10 {
		t.Fatalf("expected last bred population of 10, got %d", len(result.Population))
	}
	if result.Evaluations == 0 {
		t.Fatal("expected fitness evaluations to be counted")
	}
}

func TestRunEvaluationsIgnoreObserverCalls(t *testing.T) {
	run := func(observer Observer[int]) Result[int] {
		t.Helper()
		result, err := Run(context.Background(), RandomPopulator(10, 8), onesFitness, 9,
			WithGenerationLimit[int](5),
			WithRand[int](NewRand(3)),
			WithObserver(observer),
		)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}

	quiet := run(nil)
	observed := run(func(pop model.Population, _ int, fitness FitnessFunc[int]) {
		for _, g := range pop {
			_ = fitness(g)
		}
	})
	if quiet.Evaluations != observed.Evaluations {
		t.Fatalf("observer changed evaluation count: %d != %d", quiet.Evaluations, observed.Evaluations)
	}
	if !quiet.Best.Equal(observed.Best) {
		t.Fatalf("observer changed the search: %s != %s", quiet.Best, observed.Best)
	}
	// 5 rankings of 10, 5 breedings of 4 roulette rounds scoring 10 each, one final scoring of 10.
	if want := int64(5*10 + 5*4*10 + 10); quiet.Evaluations != want {
		t.Fatalf("expected %d evaluations, got %d", want, quiet.Evaluations)
	}
}

func TestRunDefaultGenerationLimit(t *testing.T) {
	calls := 0
	result, err := Run(context.Background(), RandomPopulator(6, 4), onesFitness, 5,
		WithRand[int](NewRand(8)),
		WithObserver(func(model.Population, int, FitnessFunc[int]) { calls++ }),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != DefaultGenerationLimit || result.Generations != DefaultGenerationLimit-1 {
		t.Fatalf("expected %d generations, got calls=%d generations=%d", DefaultGenerationLimit, calls, result.Generations)
	}
}

func TestRunBestFitnessIsMonotonic(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		var best []int
		_, err := Run(context.Background(), RandomPopulator(12, 24), onesFitness, 24,
			WithGenerationLimit[int](60),
			WithRand[int](NewRand(seed)),
			WithObserver(func(pop model.Population, _ int, fitness FitnessFunc[int]) {
				best = append(best, fitness(pop[0]))
			}),
		)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		for i := 1; i < len(best); i++ {
			if best[i] < best[i-1] {
				t.Fatalf("seed %d: best fitness dropped at generation %d: %v", seed, i, best)
			}
		}
	}
}

func TestRunObserverSeesRankedPopulation(t *testing.T) {
	_, err := Run(context.Background(), RandomPopulator(10, 16), onesFitness, 17,
		WithGenerationLimit[int](10),
		WithRand[int](NewRand(5)),
		WithObserver(func(pop model.Population, generation int, fitness FitnessFunc[int]) {
			for i := 1; i < len(pop); i++ {
				if fitness(pop[i]) > fitness(pop[i-1]) {
					t.Fatalf("generation %d not ranked: %v", generation, pop.Strings())
				}
			}
		}),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunOddPopulationSizeDrifts(t *testing.T) {
	tests := []struct {
		size  int
		sizes []int
	}{
		{size: 7, sizes: []int{7, 6, 6}},
		{size: 3, sizes: []int{3, 2, 2}},
		{size: 1, sizes: []int{1, 1, 1}},
		{size: 10, sizes: []int{10, 10, 10}},
	}
	for _, tc := range tests {
		var sizes []int
		_, err := Run(context.Background(), RandomPopulator(tc.size, 8), func(g model.Genome) int { return g.Ones() + 1 }, 100,
			WithGenerationLimit[int](3),
			WithRand[int](NewRand(1)),
			WithObserver(func(pop model.Population, _ int, _ FitnessFunc[int]) { sizes = append(sizes, len(pop)) }),
		)
		if err != nil {
			t.Fatalf("size %d: run: %v", tc.size, err)
		}
		if len(sizes) != len(tc.sizes) {
			t.Fatalf("size %d: observed %v", tc.size, sizes)
		}
		for i := range sizes {
			if sizes[i] != tc.sizes[i] {
				t.Fatalf("size %d: population sizes %v, want %v", tc.size, sizes, tc.sizes)
			}
		}
	}
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	run := func() Result[int] {
		result, err := Run(context.Background(), RandomPopulator(10, 16), onesFitness, 17,
			WithGenerationLimit[int](15),
			WithRand[int](NewRand(77)),
		)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}
	a, b := run(), run()
	if a.Generations != b.Generations || a.Best.String() != b.Best.String() {
		t.Fatalf("seeded runs differ: %d/%s vs %d/%s", a.Generations, a.Best, b.Generations, b.Best)
	}
	for i := range a.Population {
		if !a.Population[i].Equal(b.Population[i]) {
			t.Fatalf("population differs at %d", i)
		}
	}
}

func TestRunPropagatesSelectionState(t *testing.T) {
	_, err := Run(context.Background(), RandomPopulator(4, 8), func(model.Genome) int { return 0 }, 1,
		WithRand[int](NewRand(1)),
	)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state from zero weights, got %v", err)
	}
}

func TestRunPropagatesEmptyGenomeMutation(t *testing.T) {
	_, err := Run(context.Background(), RandomPopulator(4, 0), func(model.Genome) float64 { return 1 }, 2,
		WithRand[float64](NewRand(1)),
	)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument from empty genome mutation, got %v", err)
	}
}

func TestRunPropagatesCrossoverLengthMismatch(t *testing.T) {
	initial := model.Population{
		model.MustParseGenome("1111"),
		model.MustParseGenome("111"),
		model.MustParseGenome("11"),
		model.MustParseGenome("1"),
	}
	first := SelectorFunc[int](func(_ *rand.Rand, pop model.Population, _ FitnessFunc[int]) (model.Genome, model.Genome, error) {
		return pop[0], pop[1], nil
	})
	_, err := Run(context.Background(), StaticPopulator(initial), onesFitness, 10,
		WithSelection[int](first),
		WithRand[int](NewRand(1)),
	)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRunHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, RandomPopulator(4, 4), onesFitness, 5, WithRand[int](NewRand(1)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	if _, err := NewEngine(Config[int]{Fitness: onesFitness}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected missing populate error, got %v", err)
	}
	if _, err := NewEngine(Config[int]{Populate: RandomPopulator(2, 2)}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected missing fitness error, got %v", err)
	}
	if _, err := NewEngine(Config[int]{Populate: RandomPopulator(2, 2), Fitness: onesFitness, GenerationLimit: -1}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected negative limit error, got %v", err)
	}
}

func TestEngineWithAlternativeOperators(t *testing.T) {
	engine, err := NewEngine(Config[float64]{
		Populate:        RandomPopulator(20, 16),
		Fitness:         func(g model.Genome) float64 { return float64(g.Ones()) },
		FitnessLimit:    16,
		Selection:       TournamentSelector[float64]{Size: 3},
		Crossover:       UniformCrossover{},
		Mutation:        BitFlipMutation{Iterations: 2, Probability: 0.5},
		GenerationLimit: 200,
		Rand:            NewRand(4),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.BestFitness < 12 {
		t.Fatalf("expected substantial progress, best=%v", result.BestFitness)
	}
}

func TestPopulationFitnessAndSort(t *testing.T) {
	pop := model.Population{
		model.MustParseGenome("100"),
		model.MustParseGenome("111"),
		model.MustParseGenome("000"),
	}
	if got := PopulationFitness(pop, onesFitness); got != 4 {
		t.Fatalf("expected total fitness 4, got %d", got)
	}
	sorted := SortPopulation(pop, onesFitness)
	want := []string{"111", "100", "000"}
	for i := range want {
		if sorted[i].String() != want[i] {
			t.Fatalf("sorted %v, want %v", sorted.Strings(), want)
		}
	}
	if pop[0].String() != "100" {
		t.Fatal("SortPopulation must not reorder its input")
	}
}
