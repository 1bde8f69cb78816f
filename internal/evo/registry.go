package evo

import (
	"errors"
	"fmt"
	"sort"
)

var ErrOperatorNotFound = errors.New("operator not found")

var crossoverRegistry = map[string]Crossover{
	"single_point": SinglePointCrossover{},
	"two_point":    TwoPointCrossover{},
	"uniform":      UniformCrossover{},
}

// CrossoverByName resolves a built-in crossover. An empty name selects the
// single-point default.
func CrossoverByName(name string) (Crossover, error) {
	if name == "" {
		return SinglePointCrossover{}, nil
	}
	c, ok := crossoverRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: crossover %q", ErrOperatorNotFound, name)
	}
	return c, nil
}

// SelectorByName resolves a built-in selector. An empty name selects
// fitness-proportionate sampling.
func SelectorByName[F Number](name string) (Selector[F], error) {
	switch name {
	case "", "roulette", "fitness_proportionate":
		return RouletteSelector[F]{}, nil
	case "tournament":
		return TournamentSelector[F]{}, nil
	default:
		return nil, fmt.Errorf("%w: selection %q", ErrOperatorNotFound, name)
	}
}

// CrossoverNames lists the registered crossover names in sorted order.
func CrossoverNames() []string {
	names := make([]string, 0, len(crossoverRegistry))
	for name := range crossoverRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectorNames lists the built-in selector names.
func SelectorNames() []string {
	return []string{"roulette", "tournament"}
}
