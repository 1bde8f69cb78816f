// Package problem holds binary benchmark fitness functions.
package problem

import (
	"errors"
	"fmt"
	"sort"

	"bitevo/internal/model"
)

var ErrUnknownProblem = errors.New("unknown problem")

// Problem scores bit strings for a maximization search.
type Problem interface {
	Name() string
	Fitness(genome model.Genome) float64
	// Optimum is the best attainable fitness for genomes of length bits.
	Optimum(length int) float64
}

var registry = map[string]func() Problem{
	"onemax":   func() Problem { return OneMax{} },
	"trap":     func() Problem { return DeceptiveTrap{K: 4} },
	"hiff":     func() Problem { return HIFF{} },
	"knapsack": func() Problem { return DemoKnapsack() },
}

// Lookup returns a fresh instance of the named problem.
func Lookup(name string) (Problem, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProblem, name)
	}
	return factory(), nil
}

// Names lists the registered problems in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OneMax counts the bits set to one.
type OneMax struct{}

func (OneMax) Name() string { return "onemax" }

func (OneMax) Fitness(genome model.Genome) float64 {
	return float64(genome.Ones())
}

func (OneMax) Optimum(length int) float64 {
	return float64(length)
}

// DeceptiveTrap splits the genome into blocks of K bits. A full block scores
// K, any other block scores K-1-ones, pulling search toward all zeros.
type DeceptiveTrap struct {
	K int
}

func (DeceptiveTrap) Name() string { return "trap" }

func (dt DeceptiveTrap) Fitness(genome model.Genome) float64 {
	k := dt.k()
	fitness := 0.0
	for i := 0; i < len(genome)/k; i++ {
		ones := 0
		for j := 0; j < k; j++ {
			if genome[i*k+j] != 0 {
				ones++
			}
		}
		if ones == k {
			fitness += float64(k)
		} else {
			fitness += float64(k - ones - 1)
		}
	}
	return fitness
}

func (dt DeceptiveTrap) Optimum(length int) float64 {
	k := dt.k()
	return float64(length / k * k)
}

func (dt DeceptiveTrap) k() int {
	if dt.K <= 0 {
		return 4
	}
	return dt.K
}

// HIFF is the hierarchical if-and-only-if function: every aligned block of
// size 2, 4, 8, ... whose bits all agree adds its size.
type HIFF struct{}

func (HIFF) Name() string { return "hiff" }

func (HIFF) Fitness(genome model.Genome) float64 {
	fitness := 0.0
	for block := 2; block <= len(genome); block *= 2 {
		for i := 0; i+block <= len(genome); i += block {
			same := true
			for j := i + 1; j < i+block; j++ {
				if genome[j] != genome[i] {
					same = false
					break
				}
			}
			if same {
				fitness += float64(block)
			}
		}
	}
	return fitness
}

func (h HIFF) Optimum(length int) float64 {
	ones := make(model.Genome, length)
	for i := range ones {
		ones[i] = 1
	}
	return h.Fitness(ones)
}
