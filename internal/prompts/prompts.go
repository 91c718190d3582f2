// Package prompts parses and samples the brace-alternation grammar used by
// image-generation style prompts.
//
// A template is literal text with groups written {A|B|C}. Groups nest, and an
// empty alternative ({A|}) means the group may expand to nothing. Sampling picks
// one alternative per group uniformly at random using a caller-supplied source.
package prompts

import (
	"iter"
	"math/big"
	"math/rand/v2"
	"strings"
)

// Template is a parsed prompt template.
type Template struct {
	Name   string
	Source string
	root   sequence
}

// node is one element of the choice tree.
type node interface {
	expand(b *strings.Builder, rng *rand.Rand)
	combinations() *big.Int
}

// text is a literal run of characters.
type text string

func (t text) expand(b *strings.Builder, _ *rand.Rand) {
	b.WriteString(string(t))
}

func (t text) combinations() *big.Int {
	return big.NewInt(1)
}

// sequence is a concatenation of nodes.
type sequence []node

func (s sequence) expand(b *strings.Builder, rng *rand.Rand) {
	for _, n := range s {
		n.expand(b, rng)
	}
}

func (s sequence) combinations() *big.Int {
	total := big.NewInt(1)
	for _, n := range s {
		total.Mul(total, n.combinations())
	}
	return total
}

// choice is an alternation group; each alternative is a sequence.
type choice []sequence

func (c choice) expand(b *strings.Builder, rng *rand.Rand) {
	c[rng.IntN(len(c))].expand(b, rng)
}

func (c choice) combinations() *big.Int {
	total := big.NewInt(0)
	for _, alt := range c {
		total.Add(total, alt.combinations())
	}
	return total
}

// Expand produces one concrete prompt.
func (t *Template) Expand(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(len(t.Source))
	t.root.expand(&b, rng)
	return b.String()
}

// Combinations returns the number of distinct expansion paths.
// Different paths may still produce identical strings.
func (t *Template) Combinations() *big.Int {
	return t.root.combinations()
}

// Groups returns the number of alternation groups, nested ones included.
func (t *Template) Groups() int {
	return countGroups(t.root)
}

func countGroups(s sequence) int {
	count := 0
	for _, n := range s {
		if c, ok := n.(choice); ok {
			count++
			for _, alt := range c {
				count += countGroups(alt)
			}
		}
	}
	return count
}

// Samples returns an endless lazy sequence of expansions. Every range over the
// returned sequence restarts from seed, so the output is reproducible.
func (t *Template) Samples(seed uint64) iter.Seq[string] {
	return func(yield func(string) bool) {
		rng := NewRand(seed)
		for {
			if !yield(t.Expand(rng)) {
				return
			}
		}
	}
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
