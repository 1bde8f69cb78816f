// Package stats reports on evolution runs: per-generation observers,
// diagnostics, metrics and on-disk run artifacts.
package stats

import (
	"fmt"
	"io"
	"strings"

	"bitevo/internal/evo"
	"bitevo/internal/model"
)

// Printer writes a human-readable block per generation.
type Printer[F evo.Number] struct {
	Out io.Writer
}

func NewPrinter[F evo.Number](out io.Writer) *Printer[F] {
	return &Printer[F]{Out: out}
}

// Observe prints the population, its average fitness and the best and worst
// genomes, and returns the best genome.
func (p *Printer[F]) Observe(population model.Population, generation int, fitness evo.FitnessFunc[F]) model.Genome {
	if len(population) == 0 {
		return nil
	}
	ranked := evo.SortPopulation(population, fitness)
	best, worst := ranked[0], ranked[len(ranked)-1]
	avg := float64(evo.PopulationFitness(population, fitness)) / float64(len(population))

	var b strings.Builder
	fmt.Fprintf(&b, "GENERATION %02d\n", generation)
	b.WriteString("=============\n")
	fmt.Fprintf(&b, "Population: [%s]\n", strings.Join(population.Strings(), ", "))
	fmt.Fprintf(&b, "Avg. Fitness: %f\n", avg)
	fmt.Fprintf(&b, "Best: %s (%f)\n", best, float64(fitness(best)))
	fmt.Fprintf(&b, "Worst: %s (%f)\n", worst, float64(fitness(worst)))
	b.WriteString("\n")
	_, _ = io.WriteString(p.Out, b.String())
	return best
}

// Observer adapts Observe to the engine hook, dropping the returned genome.
func (p *Printer[F]) Observer() evo.Observer[F] {
	return func(population model.Population, generation int, fitness evo.FitnessFunc[F]) {
		p.Observe(population, generation, fitness)
	}
}

// BestTracker remembers the best genome of every observed generation.
type BestTracker[F evo.Number] struct {
	Genomes []model.Genome
	Fitness []F
}

func (t *BestTracker[F]) Observe(population model.Population, _ int, fitness evo.FitnessFunc[F]) {
	if len(population) == 0 {
		return
	}
	best := population[0]
	bestFitness := fitness(best)
	for _, g := range population[1:] {
		if f := fitness(g); f > bestFitness {
			best, bestFitness = g, f
		}
	}
	t.Genomes = append(t.Genomes, best.Clone())
	t.Fitness = append(t.Fitness, bestFitness)
}

// Last returns the best genome of the most recent generation.
func (t *BestTracker[F]) Last() (model.Genome, F, bool) {
	if len(t.Genomes) == 0 {
		var zero F
		return nil, zero, false
	}
	i := len(t.Genomes) - 1
	return t.Genomes[i], t.Fitness[i], true
}
