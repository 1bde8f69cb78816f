package evo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"bitevo/internal/model"
)

// RouletteSelector samples two parents with replacement, each weighted by its
// fitness. The same genome may be drawn twice.
type RouletteSelector[F Number] struct{}

func (RouletteSelector[F]) Name() string {
	return "roulette"
}

func (RouletteSelector[F]) SelectPair(rng *rand.Rand, population model.Population, fitness FitnessFunc[F]) (model.Genome, model.Genome, error) {
	if err := requireRand(rng); err != nil {
		return nil, nil, err
	}
	if len(population) == 0 {
		return nil, nil, fmt.Errorf("%w: population must not be empty", ErrInvalidArgument)
	}

	cumulative, err := cumulativeWeights(population, fitness)
	if err != nil {
		return nil, nil, err
	}
	first := spin(rng, cumulative)
	second := spin(rng, cumulative)
	return population[first], population[second], nil
}

func cumulativeWeights[F Number](population model.Population, fitness FitnessFunc[F]) ([]float64, error) {
	cumulative := make([]float64, len(population))
	total := 0.0
	for i, genome := range population {
		w := float64(fitness(genome))
		if math.IsNaN(w) || w < 0 {
			return nil, fmt.Errorf("%w: selection weight at index %d is %v", ErrInvalidState, i, w)
		}
		total += w
		cumulative[i] = total
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: selection weights sum to %v", ErrInvalidState, total)
	}
	return cumulative, nil
}

// spin returns the first index whose cumulative weight exceeds a uniform
// point on the wheel, so zero-weight genomes are never chosen.
func spin(rng *rand.Rand, cumulative []float64) int {
	total := cumulative[len(cumulative)-1]
	point := rng.Float64() * total
	idx := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > point
	})
	if idx < len(cumulative) {
		return idx
	}
	// Rounding pushed point onto the total; fall back to the last positive slot.
	for i := len(cumulative) - 1; i > 0; i-- {
		if cumulative[i] > cumulative[i-1] {
			return i
		}
	}
	return 0
}

// TournamentSelector draws Size genomes uniformly for each parent and keeps
// the fittest of them.
type TournamentSelector[F Number] struct {
	Size int
}

func (TournamentSelector[F]) Name() string {
	return "tournament"
}

func (s TournamentSelector[F]) SelectPair(rng *rand.Rand, population model.Population, fitness FitnessFunc[F]) (model.Genome, model.Genome, error) {
	if err := requireRand(rng); err != nil {
		return nil, nil, err
	}
	if len(population) == 0 {
		return nil, nil, fmt.Errorf("%w: population must not be empty", ErrInvalidArgument)
	}

	size := s.Size
	if size <= 0 {
		size = 3
	}
	if size > len(population) {
		size = len(population)
	}
	return s.pick(rng, population, fitness, size), s.pick(rng, population, fitness, size), nil
}

func (TournamentSelector[F]) pick(rng *rand.Rand, population model.Population, fitness FitnessFunc[F], size int) model.Genome {
	best := population[rng.Intn(len(population))]
	bestFitness := fitness(best)
	for i := 1; i < size; i++ {
		candidate := population[rng.Intn(len(population))]
		if f := fitness(candidate); f > bestFitness {
			best, bestFitness = candidate, f
		}
	}
	return best
}
