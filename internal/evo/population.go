package evo

import (
	"fmt"
	"math/rand"

	"bitevo/internal/model"
)

// Populator builds the initial population of a run.
type Populator func(rng *rand.Rand) (model.Population, error)

// GenerateGenome returns a genome of length independent, uniformly random
// bits. A zero length yields an empty genome.
func GenerateGenome(rng *rand.Rand, length int) (model.Genome, error) {
	if err := requireRand(rng); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: genome length must be >= 0, got %d", ErrInvalidArgument, length)
	}
	genome := make(model.Genome, length)
	for i := range genome {
		genome[i] = uint8(rng.Intn(2))
	}
	return genome, nil
}

// GeneratePopulation returns size independently generated genomes.
func GeneratePopulation(rng *rand.Rand, size, genomeLength int) (model.Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: population size must be > 0, got %d", ErrInvalidArgument, size)
	}
	population := make(model.Population, size)
	for i := range population {
		genome, err := GenerateGenome(rng, genomeLength)
		if err != nil {
			return nil, err
		}
		population[i] = genome
	}
	return population, nil
}

// RandomPopulator binds GeneratePopulation to a fixed size and length.
func RandomPopulator(size, genomeLength int) Populator {
	return func(rng *rand.Rand) (model.Population, error) {
		return GeneratePopulation(rng, size, genomeLength)
	}
}

// StaticPopulator always starts from a copy of population.
func StaticPopulator(population model.Population) Populator {
	return func(*rand.Rand) (model.Population, error) {
		if len(population) == 0 {
			return nil, fmt.Errorf("%w: population must not be empty", ErrInvalidArgument)
		}
		return population.Clone(), nil
	}
}
