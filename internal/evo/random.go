package evo

import (
	"fmt"
	"math/rand"
	"time"
)

// NewRand returns a deterministic random stream for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newUnseededRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func requireRand(rng *rand.Rand) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	return nil
}
