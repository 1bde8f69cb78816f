package problem

import "bitevo/internal/model"

type Item struct {
	Name   string
	Value  float64
	Weight float64
}

// Knapsack scores a genome as the value of the selected items, or zero when
// their weight exceeds WeightLimit. Bit i selects Items[i]; extra bits are
// ignored.
type Knapsack struct {
	Items       []Item
	WeightLimit float64
}

// DemoKnapsack is a small packing list for a weekend trip.
func DemoKnapsack() Knapsack {
	return Knapsack{
		Items: []Item{
			{Name: "laptop", Value: 500, Weight: 2200},
			{Name: "headphones", Value: 150, Weight: 160},
			{Name: "coffee mug", Value: 60, Weight: 350},
			{Name: "notepad", Value: 40, Weight: 333},
			{Name: "water bottle", Value: 30, Weight: 192},
			{Name: "mints", Value: 5, Weight: 25},
			{Name: "socks", Value: 10, Weight: 38},
			{Name: "tissues", Value: 15, Weight: 80},
			{Name: "phone", Value: 500, Weight: 200},
			{Name: "baseball cap", Value: 100, Weight: 70},
		},
		WeightLimit: 3000,
	}
}

func (Knapsack) Name() string { return "knapsack" }

func (k Knapsack) Fitness(genome model.Genome) float64 {
	value, weight := 0.0, 0.0
	for i, bit := range genome {
		if i >= len(k.Items) {
			break
		}
		if bit != 0 {
			value += k.Items[i].Value
			weight += k.Items[i].Weight
			if weight > k.WeightLimit {
				return 0
			}
		}
	}
	return value
}

// Optimum solves the instance exactly by enumerating item subsets. Intended
// for the small demo sets; instances above 24 items report the total value.
func (k Knapsack) Optimum(length int) float64 {
	n := min(length, len(k.Items))
	if n > 24 {
		total := 0.0
		for _, item := range k.Items[:n] {
			total += item.Value
		}
		return total
	}

	best := 0.0
	genome := make(model.Genome, n)
	for mask := 0; mask < 1<<n; mask++ {
		for i := range genome {
			genome[i] = uint8(mask >> i & 1)
		}
		if f := k.Fitness(genome); f > best {
			best = f
		}
	}
	return best
}

// Selected names the items a genome packs.
func (k Knapsack) Selected(genome model.Genome) []string {
	var names []string
	for i, bit := range genome {
		if i < len(k.Items) && bit != 0 {
			names = append(names, k.Items[i].Name)
		}
	}
	return names
}
