package stats

import (
	"gonum.org/v1/gonum/stat"

	"bitevo/internal/evo"
	"bitevo/internal/model"
)

// Collector accumulates GenerationDiagnostics, one entry per observed
// generation.
type Collector[F evo.Number] struct {
	diagnostics []model.GenerationDiagnostics
}

func (c *Collector[F]) Observe(population model.Population, generation int, fitness evo.FitnessFunc[F]) {
	c.diagnostics = append(c.diagnostics, Diagnose(population, generation, fitness))
}

func (c *Collector[F]) Diagnostics() []model.GenerationDiagnostics {
	out := make([]model.GenerationDiagnostics, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// BestByGeneration extracts the best fitness series.
func (c *Collector[F]) BestByGeneration() []float64 {
	out := make([]float64, len(c.diagnostics))
	for i, d := range c.diagnostics {
		out[i] = d.BestFitness
	}
	return out
}

// Diagnose summarizes the fitness distribution of one population.
func Diagnose[F evo.Number](population model.Population, generation int, fitness evo.FitnessFunc[F]) model.GenerationDiagnostics {
	d := model.GenerationDiagnostics{
		Generation:     generation,
		PopulationSize: len(population),
	}
	if len(population) == 0 {
		return d
	}

	values := make([]float64, len(population))
	distinct := make(map[string]struct{}, len(population))
	bestIdx := 0
	for i, genome := range population {
		values[i] = float64(fitness(genome))
		if values[i] > values[bestIdx] {
			bestIdx = i
		}
		distinct[genome.String()] = struct{}{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	minimum := values[0]
	for _, v := range values[1:] {
		minimum = min(minimum, v)
	}
	if len(values) < 2 {
		std = 0
	}

	d.BestFitness = values[bestIdx]
	d.BestGenome = population[bestIdx].String()
	d.MeanFitness = mean
	d.MinFitness = minimum
	d.StdDevFitness = std
	d.DistinctGenomes = len(distinct)
	return d
}
