package evo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"bitevo/internal/model"
)

const (
	DefaultGenerationLimit = 100
	// EliteCount genomes are carried unchanged into every bred generation.
	EliteCount = 2
)

// Config wires the operators of one evolution run. Zero-valued operator
// fields fall back to the defaults; GenerationLimit is taken literally, so a
// zero limit runs no generation at all.
type Config[F Number] struct {
	Populate        Populator
	Fitness         FitnessFunc[F]
	FitnessLimit    F
	Selection       Selector[F]
	Crossover       Crossover
	Mutation        Mutator
	GenerationLimit int
	Observer        Observer[F]
	Rand            *rand.Rand
	Logger          *slog.Logger
}

// Result is the outcome of Engine.Run.
type Result[F Number] struct {
	// Population is the ranked winning generation when Converged, otherwise
	// the last bred set in breeding order.
	Population model.Population
	// Generations is the index of the last generation entered.
	Generations int
	Converged   bool
	Best        model.Genome
	BestFitness F
	// Evaluations counts fitness calls made by ranking, selection and final
	// scoring. Calls made by observers are not counted.
	Evaluations int64
}

type Engine[F Number] struct {
	cfg    Config[F]
	rng    *rand.Rand
	logger *slog.Logger

	evaluations int64
}

func NewEngine[F Number](cfg Config[F]) (*Engine[F], error) {
	if cfg.Populate == nil {
		return nil, fmt.Errorf("%w: populate function is required", ErrInvalidArgument)
	}
	if cfg.Fitness == nil {
		return nil, fmt.Errorf("%w: fitness function is required", ErrInvalidArgument)
	}
	if cfg.GenerationLimit < 0 {
		return nil, fmt.Errorf("%w: generation limit must be >= 0, got %d", ErrInvalidArgument, cfg.GenerationLimit)
	}
	if cfg.Selection == nil {
		cfg.Selection = RouletteSelector[F]{}
	}
	if cfg.Crossover == nil {
		cfg.Crossover = SinglePointCrossover{}
	}
	if cfg.Mutation == nil {
		cfg.Mutation = DefaultMutation()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = newUnseededRand()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine[F]{
		cfg:    cfg,
		rng:    rng,
		logger: logger.With(slog.String("component", "evo")),
	}, nil
}

// Run evolves the population until the best genome reaches the fitness limit
// or the generation limit is exhausted. Each generation is ranked, observed,
// checked against the limit and only then bred.
func (e *Engine[F]) Run(ctx context.Context) (Result[F], error) {
	e.evaluations = 0
	fitness := e.countedFitness()

	population, err := e.cfg.Populate(e.rng)
	if err != nil {
		return Result[F]{}, fmt.Errorf("populate: %w", err)
	}
	if len(population) == 0 {
		return Result[F]{}, fmt.Errorf("%w: initial population is empty", ErrInvalidArgument)
	}

	generation := 0
	for i := 0; i < e.cfg.GenerationLimit; i++ {
		if err := ctx.Err(); err != nil {
			return Result[F]{Population: population, Generations: generation, Evaluations: e.evaluations}, err
		}
		generation = i

		scored := scorePopulation(population, fitness)
		ranked := make(model.Population, len(scored))
		for j, s := range scored {
			ranked[j] = s.genome
		}
		population = ranked

		if e.cfg.Observer != nil {
			e.cfg.Observer(ranked, i, e.cfg.Fitness)
		}

		e.logger.Debug("generation ranked",
			slog.Int("generation", i),
			slog.Int("population", len(ranked)),
			slog.Any("best_fitness", scored[0].fitness),
		)

		if scored[0].fitness >= e.cfg.FitnessLimit {
			e.logger.Info("fitness limit reached",
				slog.Int("generation", i),
				slog.String("best", scored[0].genome.String()),
				slog.Any("best_fitness", scored[0].fitness),
			)
			return Result[F]{
				Population:  ranked,
				Generations: i,
				Converged:   true,
				Best:        scored[0].genome,
				BestFitness: scored[0].fitness,
				Evaluations: e.evaluations,
			}, nil
		}

		next, err := e.breed(ranked, fitness)
		if err != nil {
			return Result[F]{Population: ranked, Generations: i, Evaluations: e.evaluations}, fmt.Errorf("generation %d: %w", i, err)
		}
		population = next
	}

	// The last bred set is returned as is; only the summary fields rank it.
	best := scorePopulation(population, fitness)[0]
	e.logger.Info("generation limit exhausted",
		slog.Int("generation_limit", e.cfg.GenerationLimit),
		slog.Any("best_fitness", best.fitness),
	)
	return Result[F]{
		Population:  population,
		Generations: generation,
		Best:        best.genome,
		BestFitness: best.fitness,
		Evaluations: e.evaluations,
	}, nil
}

// breed carries the elites over by reference and fills the rest with mutated
// offspring, two per round for len/2-1 rounds. Odd sizes therefore lose one
// genome per generation.
func (e *Engine[F]) breed(ranked model.Population, fitness FitnessFunc[F]) (model.Population, error) {
	elites := min(EliteCount, len(ranked))
	rounds := len(ranked)/2 - 1

	next := make(model.Population, 0, elites+2*max(rounds, 0))
	next = append(next, ranked[:elites]...)

	for j := 0; j < rounds; j++ {
		a, b, err := e.cfg.Selection.SelectPair(e.rng, ranked, fitness)
		if err != nil {
			return nil, fmt.Errorf("selection %s: %w", e.cfg.Selection.Name(), err)
		}
		childA, childB, err := e.cfg.Crossover.Cross(e.rng, a, b)
		if err != nil {
			return nil, fmt.Errorf("crossover %s: %w", e.cfg.Crossover.Name(), err)
		}
		if childA, err = e.cfg.Mutation.Mutate(e.rng, childA); err != nil {
			return nil, fmt.Errorf("mutation %s: %w", e.cfg.Mutation.Name(), err)
		}
		if childB, err = e.cfg.Mutation.Mutate(e.rng, childB); err != nil {
			return nil, fmt.Errorf("mutation %s: %w", e.cfg.Mutation.Name(), err)
		}
		next = append(next, childA, childB)
	}
	return next, nil
}

func (e *Engine[F]) countedFitness() FitnessFunc[F] {
	return func(genome model.Genome) F {
		e.evaluations++
		return e.cfg.Fitness(genome)
	}
}
