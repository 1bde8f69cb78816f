package model

import (
	"fmt"
	"strings"
)

// Genome is a fixed-length bit string. Each element holds 0 or 1.
type Genome []uint8

// Population is an ordered collection of genomes.
type Population []Genome

// Clone returns a copy that shares no storage with g.
func (g Genome) Clone() Genome {
	if g == nil {
		return nil
	}
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Ones counts the bits set to one.
func (g Genome) Ones() int {
	n := 0
	for _, bit := range g {
		if bit != 0 {
			n++
		}
	}
	return n
}

// Equal reports whether both genomes hold the same bits.
func (g Genome) Equal(other Genome) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the genome by concatenating bit digits, first bit first.
func (g Genome) String() string {
	var b strings.Builder
	b.Grow(len(g))
	for _, bit := range g {
		if bit != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseGenome converts a string of '0' and '1' characters into a genome.
func ParseGenome(s string) (Genome, error) {
	g := make(Genome, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			g[i] = 1
		default:
			return nil, fmt.Errorf("genome: invalid character %q at %d", c, i)
		}
	}
	return g, nil
}

// MustParseGenome is ParseGenome for literals known to be valid.
func MustParseGenome(s string) Genome {
	g, err := ParseGenome(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Clone copies the population slice and every genome in it.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, g := range p {
		out[i] = g.Clone()
	}
	return out
}

// Strings renders every genome in order.
func (p Population) Strings() []string {
	out := make([]string, len(p))
	for i, g := range p {
		out[i] = g.String()
	}
	return out
}
