// Package regen produces random strings matching a parsed regular
// expression, for use by the arbitrary value generator.
package regen

import (
	"math/rand"
	"regexp/syntax"
	"strings"
)

// DefaultExtra caps how many repetitions an unbounded quantifier may add
// beyond its minimum.
const DefaultExtra = 3

// Sample writes one random string matching re, drawing randomness from rng.
// Zero-width assertions (anchors, word boundaries) contribute nothing.
func Sample(rng *rand.Rand, re *syntax.Regexp) string {
	return SampleExtra(rng, re, DefaultExtra)
}

// SampleExtra is Sample with a caller-chosen cap on the repetitions an
// unbounded quantifier may add, so callers can widen samples to satisfy
// outside length constraints.
func SampleExtra(rng *rand.Rand, re *syntax.Regexp, extra int) string {
	var b strings.Builder
	sample(rng, re, extra, &b)
	return b.String()
}

func sample(rng *rand.Rand, re *syntax.Regexp, extra int, b *strings.Builder) {
	switch re.Op {
	case syntax.OpEmptyMatch,
		syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// zero-width
	case syntax.OpLiteral:
		b.WriteString(string(re.Rune))
	case syntax.OpCharClass:
		b.WriteRune(pickRune(rng, re.Rune))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteRune(printable[rng.Intn(len(printable))])
	case syntax.OpCapture:
		sample(rng, re.Sub[0], extra, b)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			sample(rng, sub, extra, b)
		}
	case syntax.OpAlternate:
		sample(rng, re.Sub[rng.Intn(len(re.Sub))], extra, b)
	case syntax.OpQuest:
		if rng.Intn(2) == 0 {
			sample(rng, re.Sub[0], extra, b)
		}
	case syntax.OpStar:
		repeat(rng, re.Sub[0], 0, -1, extra, b)
	case syntax.OpPlus:
		repeat(rng, re.Sub[0], 1, -1, extra, b)
	case syntax.OpRepeat:
		repeat(rng, re.Sub[0], re.Min, re.Max, extra, b)
	case syntax.OpNoMatch:
		// matches nothing; emit nothing rather than loop forever
	default:
		// remaining ops do not occur in simplified parse trees
	}
}

func repeat(rng *rand.Rand, sub *syntax.Regexp, min, max, extra int, b *strings.Builder) {
	if max < 0 {
		max = min + extra
	}
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	for i := 0; i < n; i++ {
		sample(rng, sub, extra, b)
	}
}

var printable = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-")

// pickRune selects a random rune from the inclusive rune-pair ranges of a
// character class, weighting every range equally.
func pickRune(rng *rand.Rand, pairs []rune) rune {
	if len(pairs) < 2 {
		return '?'
	}
	i := rng.Intn(len(pairs)/2) * 2
	lo, hi := pairs[i], pairs[i+1]
	if hi <= lo {
		return lo
	}
	// keep samples in a sane range for huge negated classes
	if lo <= 'a' && hi >= 'z' {
		lo, hi = 'a', 'z'
	}
	return lo + rune(rng.Intn(int(hi-lo)+1))
}
