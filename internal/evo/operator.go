package evo

import (
	"math/rand"

	"bitevo/internal/model"
)

// Crossover recombines two parents of equal length into two offspring.
// Implementations must return genomes that share no storage with the parents,
// since the engine mutates offspring in place and the parents may be elites
// carried into the next generation.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error)
}

// Mutator perturbs a genome in place and returns the same genome.
type Mutator interface {
	Name() string
	Mutate(rng *rand.Rand, genome model.Genome) (model.Genome, error)
}

// Selector draws two parents from a ranked population.
type Selector[F Number] interface {
	Name() string
	SelectPair(rng *rand.Rand, population model.Population, fitness FitnessFunc[F]) (model.Genome, model.Genome, error)
}

// Observer receives the ranked population once per generation, before the
// termination check. It must treat the population as read-only.
type Observer[F Number] func(population model.Population, generation int, fitness FitnessFunc[F])

// ChainObservers fans a generation out to every non-nil observer in order.
func ChainObservers[F Number](observers ...Observer[F]) Observer[F] {
	active := make([]Observer[F], 0, len(observers))
	for _, o := range observers {
		if o != nil {
			active = append(active, o)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(population model.Population, generation int, fitness FitnessFunc[F]) {
		for _, o := range active {
			o(population, generation, fitness)
		}
	}
}

// CrossoverFunc adapts a plain function to the Crossover interface.
type CrossoverFunc func(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error)

func (CrossoverFunc) Name() string { return "custom" }

func (f CrossoverFunc) Cross(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error) {
	return f(rng, a, b)
}

// MutatorFunc adapts a plain function to the Mutator interface.
type MutatorFunc func(rng *rand.Rand, genome model.Genome) (model.Genome, error)

func (MutatorFunc) Name() string { return "custom" }

func (f MutatorFunc) Mutate(rng *rand.Rand, genome model.Genome) (model.Genome, error) {
	return f(rng, genome)
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc[F Number] func(rng *rand.Rand, population model.Population, fitness FitnessFunc[F]) (model.Genome, model.Genome, error)

func (SelectorFunc[F]) Name() string { return "custom" }

func (f SelectorFunc[F]) SelectPair(rng *rand.Rand, population model.Population, fitness FitnessFunc[F]) (model.Genome, model.Genome, error) {
	return f(rng, population, fitness)
}
