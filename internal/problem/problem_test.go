package problem

import (
	"errors"
	"math/rand"
	"testing"

	"bitevo/internal/model"
)

func TestOneMax(t *testing.T) {
	p := OneMax{}
	if got := p.Fitness(model.MustParseGenome("10110111")); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
	if p.Optimum(8) != 8 {
		t.Fatalf("unexpected optimum %v", p.Optimum(8))
	}
}

func TestDeceptiveTrap(t *testing.T) {
	p := DeceptiveTrap{K: 4}
	tests := []struct {
		genome string
		want   float64
	}{
		{"11110000", 4 + 3},
		{"11111111", 8},
		{"00000000", 6},
		{"01110001", 0 + 2},
	}
	for _, tc := range tests {
		if got := p.Fitness(model.MustParseGenome(tc.genome)); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.genome, got, tc.want)
		}
	}
	if p.Optimum(16) != 16 {
		t.Fatalf("unexpected optimum %v", p.Optimum(16))
	}
}

func TestHIFF(t *testing.T) {
	p := HIFF{}
	if got := p.Fitness(model.MustParseGenome("1111")); got != 2+2+4 {
		t.Fatalf("all ones: got %v", got)
	}
	if got := p.Fitness(model.MustParseGenome("1100")); got != 4 {
		t.Fatalf("1100: got %v", got)
	}
	if got := p.Fitness(model.MustParseGenome("1001")); got != 0 {
		t.Fatalf("1001: got %v", got)
	}
	if p.Optimum(8) != p.Fitness(model.MustParseGenome("00000000")) {
		t.Fatal("optimum must match a uniform genome")
	}
}

func TestKnapsack(t *testing.T) {
	k := Knapsack{
		Items: []Item{
			{Name: "a", Value: 10, Weight: 5},
			{Name: "b", Value: 7, Weight: 4},
			{Name: "c", Value: 5, Weight: 3},
		},
		WeightLimit: 8,
	}
	if got := k.Fitness(model.MustParseGenome("110")); got != 0 {
		t.Fatalf("overweight pack must score zero, got %v", got)
	}
	if got := k.Fitness(model.MustParseGenome("101")); got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
	if got := k.Optimum(3); got != 15 {
		t.Fatalf("expected optimum 15, got %v", got)
	}
	if names := k.Selected(model.MustParseGenome("011")); len(names) != 2 || names[0] != "b" {
		t.Fatalf("unexpected selection %v", names)
	}
	if DemoKnapsack().Optimum(10) <= 0 {
		t.Fatal("demo knapsack must have a positive optimum")
	}
}

func TestFitnessIsPure(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		for i := 0; i < 20; i++ {
			g := make(model.Genome, 16)
			for j := range g {
				g[j] = uint8(rng.Intn(2))
			}
			before := g.String()
			if p.Fitness(g) != p.Fitness(g) {
				t.Fatalf("%s: fitness not deterministic for %s", name, g)
			}
			if g.String() != before {
				t.Fatalf("%s: fitness modified the genome", name)
			}
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("sphere"); !errors.Is(err, ErrUnknownProblem) {
		t.Fatalf("expected unknown problem, got %v", err)
	}
}
