package evo

import (
	"fmt"
	"math/rand"

	"bitevo/internal/model"
)

const (
	DefaultMutationIterations  = 1
	DefaultMutationProbability = 0.5
)

// BitFlipMutation picks a random position per iteration and flips it when a
// uniform draw in [0, 1) is strictly greater than Probability. The effective
// flip rate is therefore 1 - Probability: 1.0 never flips, 0.0 flips on every
// iteration except a draw of exactly zero.
type BitFlipMutation struct {
	Iterations  int
	Probability float64
}

// DefaultMutation returns one iteration at probability 0.5.
func DefaultMutation() BitFlipMutation {
	return BitFlipMutation{
		Iterations:  DefaultMutationIterations,
		Probability: DefaultMutationProbability,
	}
}

func (BitFlipMutation) Name() string {
	return "bit_flip"
}

// Mutate modifies genome in place and returns it.
func (m BitFlipMutation) Mutate(rng *rand.Rand, genome model.Genome) (model.Genome, error) {
	if err := requireRand(rng); err != nil {
		return nil, err
	}
	if len(genome) == 0 {
		return nil, fmt.Errorf("%w: cannot mutate an empty genome", ErrInvalidArgument)
	}

	for i := 0; i < m.Iterations; i++ {
		index := rng.Intn(len(genome))
		if rng.Float64() > m.Probability {
			genome[index] ^= 1
		}
	}
	return genome, nil
}
