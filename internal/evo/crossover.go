package evo

import (
	"fmt"
	"math/rand"

	"bitevo/internal/model"
)

func checkParents(rng *rand.Rand, a, b model.Genome) error {
	if err := requireRand(rng); err != nil {
		return err
	}
	if len(a) != len(b) {
		return fmt.Errorf("%w: genome lengths differ: %d != %d", ErrInvalidArgument, len(a), len(b))
	}
	return nil
}

// SinglePointCrossover cuts both parents at one random partition in
// [1, len-1] and swaps the tails. Parents shorter than two bits are returned
// unchanged, as copies.
type SinglePointCrossover struct{}

func (SinglePointCrossover) Name() string {
	return "single_point"
}

func (SinglePointCrossover) Cross(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error) {
	if err := checkParents(rng, a, b); err != nil {
		return nil, nil, err
	}
	length := len(a)
	if length < 2 {
		return a.Clone(), b.Clone(), nil
	}

	partition := 1 + rng.Intn(length-1)
	return splice(a, b, partition, length), splice(b, a, partition, length), nil
}

// TwoPointCrossover swaps the segment between two distinct cut points.
// Two-bit parents only admit one cut and fall back to a single-point swap.
type TwoPointCrossover struct{}

func (TwoPointCrossover) Name() string {
	return "two_point"
}

func (TwoPointCrossover) Cross(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error) {
	if err := checkParents(rng, a, b); err != nil {
		return nil, nil, err
	}
	length := len(a)
	if length < 2 {
		return a.Clone(), b.Clone(), nil
	}
	if length == 2 {
		return splice(a, b, 1, length), splice(b, a, 1, length), nil
	}

	first := 1 + rng.Intn(length-1)
	second := 1 + rng.Intn(length-2)
	if second >= first {
		second++
	}
	if first > second {
		first, second = second, first
	}
	return splice(a, b, first, second), splice(b, a, first, second), nil
}

// splice copies head, then tail[from:to], then head[to:].
func splice(head, tail model.Genome, from, to int) model.Genome {
	child := make(model.Genome, len(head))
	copy(child, head[:from])
	copy(child[from:to], tail[from:to])
	copy(child[to:], head[to:])
	return child
}

// UniformCrossover decides every position independently.
type UniformCrossover struct {
	// MixProbability is the chance the first child keeps the first parent's
	// bit at a position. Non-positive values mean 0.5.
	MixProbability float64
}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (c UniformCrossover) Cross(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome, error) {
	if err := checkParents(rng, a, b); err != nil {
		return nil, nil, err
	}
	mix := c.MixProbability
	if mix <= 0 {
		mix = 0.5
	}

	childA := make(model.Genome, len(a))
	childB := make(model.Genome, len(b))
	for i := range a {
		if rng.Float64() < mix {
			childA[i], childB[i] = a[i], b[i]
		} else {
			childA[i], childB[i] = b[i], a[i]
		}
	}
	return childA, childB, nil
}
