package typeval

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/typeval/typeval/internal/regen"
)

// Generator produces constraint-satisfying random values of one type. It
// is deterministic for a given seed and restartable: after Restart the
// same sequence of values is produced again.
type Generator struct {
	typ      Type
	seed     int64
	maxDepth int
	rng      *rand.Rand
}

// Arbitrary returns a generator of random values of t. Recursive branches
// collapse to their base case once maxDepth levels have been consumed:
// arrays become empty, optionals absent, nullables null, unless a MinItems
// constraint forces one more level.
func Arbitrary(t Type, seed int64, maxDepth int) *Generator {
	if t == nil {
		panic("typeval: arbitrary needs a type")
	}
	if maxDepth < 0 {
		panic(fmt.Sprintf("typeval: arbitrary maxDepth must be non-negative, got %d", maxDepth))
	}
	g := &Generator{typ: t, seed: seed, maxDepth: maxDepth}
	g.Restart()
	return g
}

// Next returns the next random value of the generator's type.
func (g *Generator) Next() any {
	return generateValue(g.rng, g.typ, g.maxDepth)
}

// Restart rewinds the generator to the beginning of its sequence.
func (g *Generator) Restart() {
	g.rng = rand.New(rand.NewSource(g.seed))
}

func generateValue(rng *rand.Rand, t Type, depth int) any {
	switch u := concrete(t).(type) {
	case *StringType:
		return generateString(rng, u)
	case *NumberType:
		return generateNumber(rng, u)
	case *BooleanType:
		return rng.Intn(2) == 0
	case *LiteralType:
		return u.value
	case *EnumType:
		return u.variants[rng.Intn(len(u.variants))]
	case *ObjectType:
		return generateFields(rng, &u.fieldsNode, depth)
	case *EntityType:
		return generateFields(rng, &u.fieldsNode, depth)
	case *ArrayType:
		return generateArray(rng, u, depth)
	case *OptionalType:
		if depth <= 0 || rng.Intn(2) == 0 {
			return Absent
		}
		return generateValue(rng, u.inner, depth-1)
	case *NullableType:
		if depth <= 0 || rng.Intn(4) == 0 {
			return nil
		}
		return generateValue(rng, u.inner, depth-1)
	case *ReferenceType:
		return generateValue(rng, u.inner, depth)
	case *UnionType:
		v := u.variants[rng.Intn(len(u.variants))]
		return generateValue(rng, v.Type, depth-1)
	case *CustomType:
		if u.def.Generate == nil {
			panic(fmt.Sprintf("typeval: custom type %q has no Generate callback", u.typeName))
		}
		return u.def.Generate(rng, depth)
	default:
		panic(fmt.Sprintf("typeval: unknown type kind %T in arbitrary", u))
	}
}

var alphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateString(rng *rand.Rand, t *StringType) any {
	o := t.opts
	if t.patternAST != nil {
		extra := regen.DefaultExtra
		for attempt := 0; attempt < 64; attempt++ {
			s := regen.SampleExtra(rng, t.patternAST, extra)
			if stringLengthOK(o, s) {
				return s
			}
			if o.MinLength != nil && len(s) < *o.MinLength && extra < 1<<16 {
				// widen unbounded quantifiers until the minimum is reachable
				extra *= 2
			}
		}
		panic(fmt.Sprintf("typeval: no sample of pattern %s fits the length bounds", o.Pattern))
	}
	min := 0
	if o.MinLength != nil {
		min = *o.MinLength
	}
	max := min + 16
	if o.MaxLength != nil {
		max = *o.MaxLength
	}
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(runes)
}

func stringLengthOK(o StringOptions, s string) bool {
	if o.MinLength != nil && len(s) < *o.MinLength {
		return false
	}
	if o.MaxLength != nil && len(s) > *o.MaxLength {
		return false
	}
	return true
}

func generateNumber(rng *rand.Rand, t *NumberType) any {
	const span = 1_000_000.0
	o := t.opts
	lo, hi := -span, span
	if o.Minimum != nil {
		lo = *o.Minimum
	}
	if o.ExclusiveMinimum != nil {
		lo = *o.ExclusiveMinimum + exclusiveStep(t)
	}
	if o.Maximum != nil {
		hi = *o.Maximum
	}
	if o.ExclusiveMaximum != nil {
		hi = *o.ExclusiveMaximum - exclusiveStep(t)
	}
	if hi < lo {
		hi = lo
	}
	if t.integer {
		loInt, hiInt := int64(math.Ceil(lo)), int64(math.Floor(hi))
		if hiInt < loInt {
			hiInt = loInt
		}
		return float64(loInt + rng.Int63n(hiInt-loInt+1))
	}
	return lo + rng.Float64()*(hi-lo)
}

func exclusiveStep(t *NumberType) float64 {
	if t.integer {
		return 1
	}
	return 1e-9
}

func generateFields(rng *rand.Rand, n *fieldsNode, depth int) any {
	out := make(map[string]any, len(n.fields))
	for _, f := range n.fields {
		v := generateValue(rng, f.Type, depth-1)
		if v != Absent {
			out[f.Name] = v
		}
	}
	return out
}

func generateArray(rng *rand.Rand, t *ArrayType, depth int) any {
	o := t.opts
	min := 0
	if o.MinItems != nil {
		min = *o.MinItems
	}
	max := min
	if depth > 0 {
		max = min + 3
		if o.MaxItems != nil && *o.MaxItems < max {
			max = *o.MaxItems
		}
	}
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	out := make([]any, n)
	for i := range out {
		out[i] = generateElement(rng, t.item, depth-1)
	}
	return out
}

// generateElement takes the present branch of an optional item: wire arrays
// have no representation for an absent slot.
func generateElement(rng *rand.Rand, t Type, depth int) any {
	v := generateValue(rng, t, depth)
	if v != Absent {
		return v
	}
	inner := t
	for {
		o, ok := concrete(inner).(*OptionalType)
		if !ok {
			break
		}
		inner = o.inner
	}
	return generateValue(rng, inner, depth)
}
