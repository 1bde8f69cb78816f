package evo

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateGenomeLengthAndBits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, length := range []int{0, 1, 8, 65} {
		genome, err := GenerateGenome(rng, length)
		if err != nil {
			t.Fatalf("generate length %d: %v", length, err)
		}
		if len(genome) != length {
			t.Fatalf("expected length %d, got %d", length, len(genome))
		}
		for i, bit := range genome {
			if bit > 1 {
				t.Fatalf("non-binary value %d at %d", bit, i)
			}
		}
	}
}

func TestGenerateGenomeUsesBothValues(t *testing.T) {
	genome, err := GenerateGenome(rand.New(rand.NewSource(2)), 256)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	ones := genome.Ones()
	if ones < 90 || ones > 166 {
		t.Fatalf("expected roughly balanced bits, got %d ones of 256", ones)
	}
}

func TestGenerateGenomeRejectsInvalidInput(t *testing.T) {
	if _, err := GenerateGenome(rand.New(rand.NewSource(1)), -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for negative length, got %v", err)
	}
	if _, err := GenerateGenome(nil, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil rng, got %v", err)
	}
}

func TestGeneratePopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pop, err := GeneratePopulation(rng, 10, 8)
	if err != nil {
		t.Fatalf("generate population: %v", err)
	}
	if len(pop) != 10 {
		t.Fatalf("expected 10 genomes, got %d", len(pop))
	}
	for _, g := range pop {
		if len(g) != 8 {
			t.Fatalf("expected genome length 8, got %d", len(g))
		}
	}

	for _, size := range []int{0, -3} {
		if _, err := GeneratePopulation(rng, size, 8); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("size %d: expected invalid argument, got %v", size, err)
		}
	}
}

func TestGeneratePopulationIsReproducibleForSeed(t *testing.T) {
	a, err := RandomPopulator(6, 12)(NewRand(99))
	if err != nil {
		t.Fatalf("populate a: %v", err)
	}
	b, err := RandomPopulator(6, 12)(NewRand(99))
	if err != nil {
		t.Fatalf("populate b: %v", err)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("genome %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}
