package evo

import (
	"sort"

	"golang.org/x/exp/constraints"

	"bitevo/internal/model"
)

// Number is the set of types a fitness score may take.
type Number interface {
	constraints.Integer | constraints.Float
}

// FitnessFunc scores a genome. It must be pure and total over every genome
// of the configured length.
type FitnessFunc[F Number] func(genome model.Genome) F

// PopulationFitness sums the fitness of every genome.
func PopulationFitness[F Number](population model.Population, fitness FitnessFunc[F]) F {
	var total F
	for _, genome := range population {
		total += fitness(genome)
	}
	return total
}

// SortPopulation returns a new slice holding the population ranked by
// descending fitness. Each genome is scored once.
func SortPopulation[F Number](population model.Population, fitness FitnessFunc[F]) model.Population {
	scored := scorePopulation(population, fitness)
	out := make(model.Population, len(scored))
	for i, s := range scored {
		out[i] = s.genome
	}
	return out
}

type scoredGenome[F Number] struct {
	genome  model.Genome
	fitness F
}

func scorePopulation[F Number](population model.Population, fitness FitnessFunc[F]) []scoredGenome[F] {
	scored := make([]scoredGenome[F], len(population))
	for i, genome := range population {
		scored[i] = scoredGenome[F]{genome: genome, fitness: fitness(genome)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].fitness > scored[j].fitness
	})
	return scored
}
